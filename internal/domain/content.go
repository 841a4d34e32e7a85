package domain

import (
	"fmt"
	"net/url"
	"strconv"
)

// Item is a loosely-typed content record (news, announcement, employee).
// Every field is optional; accessors return zero values for absent or mistyped keys.
type Item map[string]any

func (it Item) String(key string) string {
	switch v := it[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// ID returns the numeric identifier, or 0 when missing or not numeric.
func (it Item) ID() int {
	switch v := it["id"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func (it Item) Title() string { return it.String("title") }
func (it Item) Text() string  { return it.String("text") }

// Clone returns a shallow copy so a caller can tag or annotate without touching the source.
func (it Item) Clone() Item {
	out := make(Item, len(it)+1)
	for k, v := range it {
		out[k] = v
	}
	return out
}

// Envelope is the remote pagination response shape.
// Next == nil (or empty) is the only termination signal; Count is advisory.
type Envelope struct {
	Results  []Item  `json:"results" yaml:"results"`
	Count    *int    `json:"count" yaml:"count"`
	Next     *string `json:"next" yaml:"next"`
	Previous *string `json:"previous" yaml:"previous"`
}

// EmptyEnvelope is returned for endpoints without a registered fallback.
func EmptyEnvelope() Envelope {
	zero := 0
	return Envelope{Results: []Item{}, Count: &zero}
}

// HasNext reports whether the envelope points at a further page.
func (e Envelope) HasNext() bool {
	return e.Next != nil && *e.Next != ""
}

// Page is a normalized envelope: Count defaults to len(Results), Next to "".
type Page struct {
	Results []Item `json:"results"`
	Count   int    `json:"count"`
	Next    string `json:"next,omitempty"`
}

// NewPage normalizes an envelope into a Page.
func NewPage(e Envelope) Page {
	p := Page{Results: e.Results}
	if p.Results == nil {
		p.Results = []Item{}
	}
	if e.Count != nil {
		p.Count = *e.Count
	} else {
		p.Count = len(p.Results)
	}
	if e.Next != nil {
		p.Next = *e.Next
	}
	return p
}

// Endpoint describes a single list request. Built per call.
type Endpoint struct {
	Path  string
	Page  int
	Limit int
}

func (e Endpoint) Query() url.Values {
	q := url.Values{}
	if e.Page > 0 {
		q.Set("page", strconv.Itoa(e.Page))
	}
	if e.Limit > 0 {
		q.Set("limit", strconv.Itoa(e.Limit))
	}
	return q
}

// ContactInfo holds the institution's public contact details.
type ContactInfo struct {
	Phone1  string `json:"phone_1"`
	Phone2  string `json:"phone_2"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// UniversityStats holds headline figures shown on the landing page.
type UniversityStats struct {
	FoundedYear    int `json:"founded_year"`
	TotalStudents  int `json:"total_students"`
	TotalFaculties int `json:"total_faculties"`
	TotalPrograms  int `json:"total_programs"`
}

type Faculty struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
