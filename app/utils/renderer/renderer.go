package renderer

import (
	"html/template"

	"github.com/Rakhulsr/go-catalog-admin/web"
	"github.com/unrolled/render"
)

func New() *render.Render {
	return render.New(render.Options{
		Directory:  "templates",
		FileSystem: &render.EmbedFileSystem{FS: web.Templates},
		Layout:     "layout",
		Extensions: []string{".html"},
		Funcs: []template.FuncMap{
			{
				"add": func(a, b int) int { return a + b },
				"hasID": func(ids []uint, id uint) bool {
					for _, v := range ids {
						if v == id {
							return true
						}
					}
					return false
				},
			},
		},
	})
}
