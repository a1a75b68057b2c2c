package generator

import (
	"github.com/cshum/cvjsgen/internal/whitelist"
)

// TemplateData holds all data needed by any template
type TemplateData struct {
	Modules     []ModuleData
	Flat        []ClassData
	MemberCount int
}

// ModuleData is one module with its classes, free functions first
type ModuleData struct {
	Name    string
	Classes []ClassData
}

// ClassData is a class (or the free functions) with its members in source order
type ClassData struct {
	Name    string
	Members []string
}

// NewTemplateData creates a new TemplateData structure from a whitelist
func NewTemplateData(wl whitelist.WhiteList) *TemplateData {
	var modules []ModuleData
	for _, group := range wl.Groups() {
		module := ModuleData{Name: group.Module}
		for _, class := range group.Classes.Names() {
			module.Classes = append(module.Classes, ClassData{
				Name:    class,
				Members: group.Classes[class],
			})
		}
		modules = append(modules, module)
	}

	flat := wl.Flatten()
	var flatClasses []ClassData
	for _, class := range whitelist.Classes(flat).Names() {
		flatClasses = append(flatClasses, ClassData{Name: class, Members: flat[class]})
	}

	return &TemplateData{
		Modules:     modules,
		Flat:        flatClasses,
		MemberCount: wl.Len(),
	}
}
