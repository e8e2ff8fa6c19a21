package models

import (
	"fmt"
	"html"
	"html/template"
	"math"
	"time"
)

const ThumbnailPlaceholder = "* * *"

// DaysSince returns the whole days elapsed between created and now, rounded down.
func DaysSince(created, now time.Time) int {
	return int(math.Floor(now.Sub(created).Hours() / 24))
}

// ThumbnailHTML renders the small change-list preview linking to the full image.
func ThumbnailHTML(imageURL string) template.HTML {
	if imageURL == "" {
		return template.HTML(ThumbnailPlaceholder)
	}
	u := html.EscapeString(imageURL)
	return template.HTML(fmt.Sprintf(`<a target="_blank" href="%s"><img src="%s" style="height:30px; width:30px;"></a>`, u, u))
}

// PreviewHTML renders the larger read-only preview shown on the change form.
func PreviewHTML(imageURL string) template.HTML {
	if imageURL == "" {
		return template.HTML("<h2>NO IMAGE</h2>")
	}
	u := html.EscapeString(imageURL)
	return template.HTML(fmt.Sprintf(`<a target="_blank" href="%s"><img src="%s" style="max-height:100px; max-width:200px;"></a>`, u, u))
}
