package generator

import (
	"strings"
	"text/template"

	"github.com/cshum/cvjsgen/internal/whitelist"
)

// GetTemplateFuncMap Helper functions for templates
func GetTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"pyString":   pyString,
		"moduleList": moduleList,
		"className":  className,
	}
}

// pyString quotes s as a single quoted Python string literal
func pyString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}

// moduleList joins module names for the makeWhiteList call
func moduleList(modules []ModuleData) string {
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
	}
	return strings.Join(names, ", ")
}

func className(name string) string {
	if name == whitelist.FreeFunctions {
		return "Free functions"
	}
	return name
}
