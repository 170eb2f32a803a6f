package models

import "sort"

var tableModels = map[string]interface{}{
	"users":      User{},
	"posts":      Post{},
	"comments":   Comment{},
	"categories": Category{},
	"tags":       Tag{},
}

// All returns a pointer to every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Tag{},
		&Post{},
		&Comment{},
	}
}

// TableNames lists the tables owned by the models, sorted.
func TableNames() []string {
	names := make([]string, 0, len(tableModels))
	for name := range tableModels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
