package template

// QueryTemplate is an immutable query parameter: a name template plus ordered value
// templates. A nil value marks a bare parameter rendered by name alone.
type QueryTemplate struct {
	name   *Template
	values []*Template
	format CollectionFormat
	opts   Options
}

func queryOptions(opts Options) Options {
	opts.Encoding = EncodeQuery
	opts.KeepUnresolved = false
	return opts
}

// NewQueryTemplate creates a query template for name and values
func NewQueryTemplate(name string, values []string, format CollectionFormat, opts Options) *QueryTemplate {
	opts = queryOptions(opts)
	q := &QueryTemplate{
		name:   Parse(name, opts),
		values: make([]*Template, 0, len(values)),
		format: format,
		opts:   opts,
	}
	for _, v := range values {
		q.values = append(q.values, Parse(v, opts))
	}
	return q
}

// NewBareQueryTemplate creates a query template for a parameter that has no value
func NewBareQueryTemplate(name string, format CollectionFormat, opts Options) *QueryTemplate {
	opts = queryOptions(opts)
	return &QueryTemplate{
		name:   Parse(name, opts),
		values: []*Template{nil},
		format: format,
		opts:   opts,
	}
}

// Append returns a copy of q with values added. The copy uses format.
func (q *QueryTemplate) Append(values []string, format CollectionFormat) *QueryTemplate {
	out := q.clone()
	out.format = format
	for _, v := range values {
		out.values = append(out.values, Parse(v, out.opts))
	}
	return out
}

// AppendBare returns a copy of q with a bare (valueless) entry added
func (q *QueryTemplate) AppendBare() *QueryTemplate {
	out := q.clone()
	out.values = append(out.values, nil)
	return out
}

// WithOptions rebuilds q with new encoding options, keeping its values and format
func (q *QueryTemplate) WithOptions(opts Options) *QueryTemplate {
	opts = queryOptions(opts)
	out := &QueryTemplate{
		name:   Parse(q.name.raw, opts),
		values: make([]*Template, len(q.values)),
		format: q.format,
		opts:   opts,
	}
	for i, v := range q.values {
		if v != nil {
			out.values[i] = Parse(v.raw, opts)
		}
	}
	return out
}

func (q *QueryTemplate) clone() *QueryTemplate {
	values := make([]*Template, len(q.values), len(q.values)+1)
	copy(values, q.values)
	return &QueryTemplate{
		name:   q.name,
		values: values,
		format: q.format,
		opts:   q.opts,
	}
}

// Name returns the unexpanded parameter name
func (q *QueryTemplate) Name() string {
	return q.name.raw
}

// Format returns the collection format
func (q *QueryTemplate) Format() CollectionFormat {
	return q.format
}

// Options returns the encoding options
func (q *QueryTemplate) Options() Options {
	return q.opts
}

// Values returns the unexpanded values, skipping bare entries
func (q *QueryTemplate) Values() []string {
	out := make([]string, 0, len(q.values))
	for _, v := range q.values {
		if v != nil {
			out = append(out, v.raw)
		}
	}
	return out
}

// Variables returns the variables used by the name and values
func (q *QueryTemplate) Variables() []string {
	seen := make(map[string]struct{})
	vars := make([]string, 0)
	add := func(t *Template) {
		for _, v := range t.Variables() {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				vars = append(vars, v)
			}
		}
	}
	add(q.name)
	for _, v := range q.values {
		if v != nil {
			add(v)
		}
	}
	return vars
}

// String renders the unexpanded query fragment, e.g. "id={id}" or "tag=a,b"
func (q *QueryTemplate) String() string {
	return q.format.Join(q.name.raw, q.Values())
}

// Expand renders the query fragment against vars. Undefined values are dropped; when
// nothing remains the result is empty, unless the parameter holds a bare entry or an
// empty collection, in which case the name alone is rendered.
func (q *QueryTemplate) Expand(vars map[string]any) string {
	name := q.name.Expand(vars)
	if name == "" {
		return ""
	}

	expanded := make([]string, 0, len(q.values))
	bare := false
	for _, v := range q.values {
		if v == nil {
			bare = true
			continue
		}
		values, ok := v.ExpandValues(vars)
		if !ok {
			continue
		}
		if len(values) == 0 {
			bare = true
			continue
		}
		expanded = append(expanded, values...)
	}

	if len(expanded) == 0 {
		if bare {
			return name
		}
		return ""
	}
	return q.format.Join(name, expanded)
}
