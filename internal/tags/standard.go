package tags

// Standard tag names.
const (
	TagParam       = "param"
	TagProperty    = "property"
	TagDescription = "description"
	TagExample     = "example"
	TagReturns     = "returns"
	TagReturn      = "return"
	TagName        = "name"
	TagNgdoc       = "ngdoc"
	TagKind        = "kind"
	TagElement     = "element"
	TagRequires    = "requires"
	TagSee         = "see"
	TagDeprecated  = "deprecated"
)

// NewStandardRegistry creates a registry with every builtin tag registered.
func NewStandardRegistry(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	r.MustRegister(TagParam, HandlerFunc(Param))
	r.MustRegister(TagProperty, HandlerFunc(Property))
	r.MustRegister(TagDescription, HandlerFunc(Description))
	r.MustRegister(TagExample, HandlerFunc(Example))
	r.MustRegister(TagReturns, HandlerFunc(Returns))
	r.MustRegister(TagReturn, HandlerFunc(Returns))
	r.MustRegister(TagName, HandlerFunc(Name))
	r.MustRegister(TagNgdoc, HandlerFunc(Kind))
	r.MustRegister(TagKind, HandlerFunc(Kind))
	r.MustRegister(TagElement, HandlerFunc(Element))
	r.MustRegister(TagRequires, HandlerFunc(Requires))
	r.MustRegister(TagSee, HandlerFunc(See))
	r.MustRegister(TagDeprecated, HandlerFunc(Deprecated))
	return r
}
