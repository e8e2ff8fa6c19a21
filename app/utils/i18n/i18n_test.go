package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func request(accept string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	if accept != "" {
		r.Header.Set("Accept-Language", accept)
	}
	return r
}

func TestTagSelection(t *testing.T) {
	en := New("en")
	assert.Equal(t, language.English, en.Tag(request("")))
	assert.Equal(t, language.Turkish, en.Tag(request("tr-TR,tr;q=0.9,en;q=0.5")))
	assert.Equal(t, language.English, en.Tag(request("ja")))

	tr := New("tr")
	assert.Equal(t, language.Turkish, tr.Tag(request("")))
	assert.Equal(t, language.English, tr.Tag(request("en-US")))
}

func TestStockMessages(t *testing.T) {
	tr := New("tr")
	assert.Equal(t, `3 adet "Stokta Var" olarak işaretlendi.`, tr.Sprintf(request(""), MarkedInStock, 3))
	assert.Equal(t, `2 adet "Stokta Yok" olarak işaretlendi.`, tr.Sprintf(request(""), MarkedOutOfStock, 2))

	en := New("en")
	assert.Equal(t, `3 products marked as "In stock".`, en.Sprintf(request(""), MarkedInStock, 3))
}

func TestModelNamesAreTranslated(t *testing.T) {
	tr := New("tr")
	assert.Equal(t, "ürün “Lamp” başarıyla eklendi.", tr.Sprintf(request(""), Added, ModelProduct, "Lamp"))
	assert.Equal(t, "The product “Lamp” was added successfully.", New("en").Sprintf(request(""), Added, ModelProduct, "Lamp"))
}
