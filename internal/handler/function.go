package handler

// HTTPMethod is the HTTP verb the load-generator script uses to invoke a
// handler.
type HTTPMethod string

const (
	MethodGet  HTTPMethod = "GET"
	MethodPost HTTPMethod = "POST"
)

// Dependency is an infrastructure dependency a handler requires, e.g. a
// database. Two dependencies collapse to one by Key() (name + service
// manifest identity).
type Dependency struct {
	Name        string   `yaml:"name"`
	ServiceYAML string   `yaml:"service_yaml"`
	Environment []string `yaml:"environment"`
}

// Key identifies a dependency for deduplication purposes.
func (d Dependency) Key() string {
	return d.Name + "|" + d.ServiceYAML
}

// Function is a parsed handler descriptor: where to import it from, its
// call signature, whether it is async, whether it returns a value, and what
// infrastructure it depends on.
type Function struct {
	ImportPath  string       `yaml:"import_path"`
	Description string       `yaml:"description,omitempty"`
	Signature   Signature    `yaml:"signature"`
	IsAsync     bool         `yaml:"is_async"`
	DependsOn   []Dependency `yaml:"depends_on,omitempty"`
	Returns     bool         `yaml:"returns,omitempty"`
}

// HTTPMethod returns POST iff any parameter's schema is object or array,
// else GET.
func (f Function) HTTPMethod() HTTPMethod {
	for _, p := range f.Signature.Parameters {
		if p.Schema.IsObjectOrArray() {
			return MethodPost
		}
	}
	return MethodGet
}

// QueryParams returns the primitive-typed parameters by Name(), in
// signature order — the load generator's query-string surface.
func (f Function) QueryParams() []string {
	var out []string
	for _, p := range f.Signature.Parameters {
		if p.IsPrimitiveType() {
			out = append(out, p.Name())
		}
	}
	return out
}
