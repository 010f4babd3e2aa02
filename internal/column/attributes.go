package column

// Attribute pairs an attribute name with its column declaration
type Attribute struct {
	Name   string
	Column *Builder
}

// Attributes is an ordered set of column declarations
type Attributes []Attribute

// Get returns the builder for an attribute
func (a Attributes) Get(name string) (*Builder, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Column, true
		}
	}
	return nil, false
}

// Names returns the attribute names in declaration order
func (a Attributes) Names() []string {
	names := make([]string, len(a))
	for i, attr := range a {
		names[i] = attr.Name
	}
	return names
}

// NamedOptions is one attribute's engine-native definition
type NamedOptions struct {
	Name    string
	Options AttributeOptions
}

// Options builds every attribute's definition in declaration order
func (a Attributes) Options() []NamedOptions {
	result := make([]NamedOptions, len(a))
	for i, attr := range a {
		result[i] = NamedOptions{Name: attr.Name, Options: attr.Column.Build()}
	}
	return result
}

// DefineAttributes creates the attribute definition map for the persistence layer
func DefineAttributes(a Attributes) map[string]AttributeOptions {
	result := make(map[string]AttributeOptions, len(a))
	for _, attr := range a {
		result[attr.Name] = attr.Column.Build()
	}
	return result
}
