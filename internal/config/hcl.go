package config

import (
	"fmt"

	"github.com/cshum/cvjsgen/internal/whitelist"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclFile is the top level of an HCL whitelist:
//
//	module "objdetect" {
//	  functions = ["groupRectangles"]
//	  class "CascadeClassifier" {
//	    members = ["load", "empty"]
//	  }
//	}
type hclFile struct {
	Modules []*hclModule `hcl:"module,block"`
}

type hclModule struct {
	Name      string      `hcl:"name,label"`
	Functions []string    `hcl:"functions,optional"`
	Classes   []*hclClass `hcl:"class,block"`
}

type hclClass struct {
	Name    string   `hcl:"name,label"`
	Members []string `hcl:"members"`
}

func decodeHCL(path string) ([]whitelist.Group, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	groups := make([]whitelist.Group, 0, len(parsed.Modules))
	for _, m := range parsed.Modules {
		classes := whitelist.Classes{}
		if m.Functions != nil {
			classes[whitelist.FreeFunctions] = m.Functions
		}
		for _, c := range m.Classes {
			if _, exists := classes[c.Name]; exists {
				return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateClass, m.Name, c.Name)
			}
			classes[c.Name] = c.Members
		}
		groups = append(groups, whitelist.NewGroup(m.Name, classes))
	}
	return groups, nil
}
