package savedquery

import "gopkg.in/yaml.v3"

// fileDTO is the YAML layout of a saved query file.
type fileDTO struct {
	Queries []queryDTO `yaml:"queries"`
}

type queryDTO struct {
	ID         string        `yaml:"id"`
	Name       string        `yaml:"name"`
	Entity     string        `yaml:"entity"`
	Predicates []templateDTO `yaml:"predicates"`
}

// templateDTO is one predicate template. Provider defaults to constant;
// constant templates carry their literal in Value.
type templateDTO struct {
	Field    string    `yaml:"field"`
	Op       string    `yaml:"op"`
	Join     string    `yaml:"join"`
	Provider string    `yaml:"provider"`
	Value    yaml.Node `yaml:"value"`
}

type rangeDTO struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}
