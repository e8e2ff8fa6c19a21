package changelist_test

import (
	"html/template"
	"strconv"
)

type templateHTML = template.HTML

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
