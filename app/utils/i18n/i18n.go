package i18n

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The key doubles as the English text.
const (
	MarkedInStock     = `%d products marked as "In stock".`
	MarkedOutOfStock  = `%d products marked as "Out of stock".`
	ActionSetStockIn  = `Mark selected products as "In stock"`
	ActionSetStockOut = `Mark selected products as "Out of stock"`
	ActionDelete      = "Delete selected products"
	DeletedMany       = "Successfully deleted %d products."
	NoneSelected      = "Items must be selected in order to perform actions on them. No items have been changed."
	NoAction          = "No action selected."
	Added             = "The %s “%s” was added successfully."
	Changed           = "The %s “%s” was changed successfully."
	Deleted           = "The %s “%s” was deleted successfully."
	ChangedMany       = "%d products were changed successfully."
	NotFound          = "The %s with ID “%s” doesn’t exist. Perhaps it was deleted?"
	Imported          = "Import finished: %d created, %d updated."
	ImportFailed      = "Import failed: %s"
	GenericError      = "Something went wrong, please try again."
	SearchHelp        = "Search by product name or ID."
	FixErrors         = "Please correct the errors below."

	ModelCategory = "category"
	ModelProduct  = "product"
	ModelReview   = "review"
)

var turkish = map[string]string{
	MarkedInStock:     `%d adet "Stokta Var" olarak işaretlendi.`,
	MarkedOutOfStock:  `%d adet "Stokta Yok" olarak işaretlendi.`,
	ActionSetStockIn:  `İşaretli ürünleri "Stokta Var" olarak işaretle`,
	ActionSetStockOut: `İşaretli ürünleri "Stokta Yok" olarak işaretle`,
	ActionDelete:      "Seçili ürünleri sil",
	DeletedMany:       "%d ürün başarıyla silindi.",
	NoneSelected:      "Eylem gerçekleştirmek için öğe seçilmelidir. Hiçbir öğe değiştirilmedi.",
	NoAction:          "Hiçbir eylem seçilmedi.",
	Added:             "%s “%s” başarıyla eklendi.",
	Changed:           "%s “%s” başarıyla değiştirildi.",
	Deleted:           "%s “%s” başarıyla silindi.",
	ChangedMany:       "%d ürün başarıyla değiştirildi.",
	NotFound:          "“%[2]s” kimlikli %[1]s mevcut değil. Silinmiş olabilir mi?",
	Imported:          "İçe aktarma tamamlandı: %d eklendi, %d güncellendi.",
	ImportFailed:      "İçe aktarma başarısız: %s",
	GenericError:      "Bir şeyler ters gitti, lütfen tekrar deneyin.",
	SearchHelp:        "Arama işlemlerini buradan yapabilirsiniz.",
	FixErrors:         "Lütfen aşağıdaki hataları düzeltin.",

	ModelCategory: "kategori",
	ModelProduct:  "ürün",
	ModelReview:   "yorum",
}

var supported = []language.Tag{language.English, language.Turkish}

var matcher = language.NewMatcher(supported)

func init() {
	for key, msg := range turkish {
		if err := message.SetString(language.Turkish, key, msg); err != nil {
			panic(err)
		}
	}
}

// Translator picks the operator language for a request.
type Translator struct {
	fallback language.Tag
}

func New(defaultLang string) *Translator {
	tag, _ := language.MatchStrings(matcher, defaultLang)
	return &Translator{fallback: base(tag)}
}

// Tag prefers the request's Accept-Language and falls back to the configured
// admin language.
func (t *Translator) Tag(r *http.Request) language.Tag {
	accept := r.Header.Get("Accept-Language")
	if accept == "" {
		return t.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return t.fallback
	}
	tag, _, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return t.fallback
	}
	return base(tag)
}

func (t *Translator) Printer(r *http.Request) *message.Printer {
	return message.NewPrinter(t.Tag(r))
}

// Sprintf translates key into the request language. Model names passed as
// arguments are translated as well.
func (t *Translator) Sprintf(r *http.Request, key string, args ...interface{}) string {
	p := t.Printer(r)
	for i, a := range args {
		if s, ok := a.(string); ok && isModel(s) {
			args[i] = p.Sprintf(s)
		}
	}
	return p.Sprintf(key, args...)
}

func isModel(s string) bool {
	return s == ModelCategory || s == ModelProduct || s == ModelReview
}

func base(tag language.Tag) language.Tag {
	b, _ := tag.Base()
	for _, s := range supported {
		if sb, _ := s.Base(); sb == b {
			return s
		}
	}
	return language.English
}
