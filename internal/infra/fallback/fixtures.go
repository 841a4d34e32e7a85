package fallback

import (
	"fmt"

	"github.com/UniversityPortal/internal/domain"
)

const (
	NewsPath          = "/uz/news/list/"
	AnnouncementsPath = "/uz/elon/list/"

	placeholderImage = "https://buxdu.uz/media/article/images/photo_2025-09-06_18-39-20.jpg"
)

// ListPath is the endpoint path of a listing kind ("news", "elon", "xodim") in locale.
func ListPath(locale, kind string) string {
	return fmt.Sprintf("/%s/%s/list/", locale, kind)
}

// builtin returns the fixtures keyed under locale. The content itself is Uzbek only.
func builtin(locale string) map[string]domain.Envelope {
	return map[string]domain.Envelope{
		ListPath(locale, "elon"): envelope(
			domain.Item{
				"id":    1,
				"title": "Temirov Farrux Umedovichning tarix fanlari doktori (DSc) dissertatsiya ishi himoyasi to'g'risida",
				"text":  "Sadriddin Ayniyning Turkiston mintaqasidagi ijtimoiy-madaniy hayotda tutgan o'rni va ilmiy merosi mavzusida Temirov Farrux Umedovichning 07.00.01 – O'zbekiston tarixi ixtisosligi bo'yicha dissertatsiya ishi himoyasi Buxoro davlat universiteti huzuridagi Ilmiy kengashning 2025-yil 13-sentyabr kuni soat 10:00 dagi majlisida bo'lib o'tadi.",
				"image": placeholderImage,
			},
			domain.Item{
				"id":    2,
				"title": "Pedagogika fanlari doktori (DSc) dissertatsiya ishi himoyasi to'g'risida",
				"text":  "Ahmadov Olimjon Shodmonovichning pedagogika fanlari doktori (DSc) dissertatsiya ishi himoyasi to'g'risida e'lon.",
				"image": placeholderImage,
			},
			domain.Item{
				"id":    3,
				"title": "Filologiya fanlari bo'yicha falsafa doktori (PhD) dissertatsiya ishi himoyasi",
				"text":  "Radjabova Dildora Raximovnaning filologiya fanlari bo'yicha falsafa doktori (PhD) dissertatsiya ishi himoyasi to'g'risida e'lon.",
				"image": placeholderImage,
			},
			domain.Item{
				"id":    4,
				"title": "Jurayev Bobomurod Tojiyevichning dissertatsiya ishi himoyasi",
				"text":  "Pedagogika fanlari doktori (DSc) dissertatsiya ishi himoyasi to'g'risida e'lon.",
				"image": placeholderImage,
			},
			domain.Item{
				"id":    5,
				"title": "Adizova Nigora Baxtiyorovnaning dissertatsiya ishi himoyasi",
				"text":  "Pedagogika fanlari doktori (DSc) dissertatsiya ishi himoyasi to'g'risida e'lon.",
				"image": placeholderImage,
			},
		),
		ListPath(locale, "news"): envelope(
			domain.Item{
				"id":             1,
				"title":          "Buxoro davlat universiteti kengashining 2024/2025 o'quv yili 8-yig'ilishi bo'lib o'tdi",
				"text":           "Buxoro davlat universiteti kengashining 2024/2025 o'quv yili 8-yig'ilishi bo'lib o'tdi. Yig'ilishda universitetning o'tgan davrdagi faoliyati va kelajakdagi rejalari muhokama qilindi.",
				"image":          placeholderImage,
				"published_date": "2025-04-02",
			},
			domain.Item{
				"id":             2,
				"title":          "BuxDUda taniqli kino arboblari ishtirokida ijodiy uchrashuv bo'lib o'tdi",
				"text":           "Buxoro davlat universitetida taniqli kino arboblari ishtirokida ijodiy uchrashuv bo'lib o'tdi. Uchrashuvda kino san'ati va ta'lim sohasidagi hamkorlik masalalari muhokama qilindi.",
				"image":          placeholderImage,
				"published_date": "2025-04-02",
			},
			domain.Item{
				"id":             3,
				"title":          "BuxDUda 'Qadriyatlaring boqiy bo'lsin, Navro'z!' sayli",
				"text":           "Buxoro davlat universitetida 'Qadriyatlaring boqiy bo'lsin, Navro'z!' sayli bo'lib o'tdi. Saylida an'anaviy o'zbek madaniyati va milliy qadriyatlar namoyish etildi.",
				"image":          placeholderImage,
				"published_date": "2025-03-22",
			},
			domain.Item{
				"id":             4,
				"title":          "Buxoro davlat universitetida 'Kelajakka qadam' dasturi bo'yicha bitiruvchi-yoshlar bilan uchrashuv",
				"text":           "Buxoro davlat universitetida 'Kelajakka qadam' dasturi bo'yicha bitiruvchi-yoshlar bilan uchrashuv bo'lib o'tdi. Uchrashuvda yoshlarning kasbiy yo'nalishlari va kelajakdagi rejalari muhokama qilindi.",
				"image":          placeholderImage,
				"published_date": "2025-03-28",
			},
		),
	}
}

func envelope(items ...domain.Item) domain.Envelope {
	n := len(items)
	return domain.Envelope{Results: items, Count: &n}
}
