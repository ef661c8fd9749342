package ir

// Refs calls fn for every Ref reachable from t, depth first in field order.
// path describes where the reference sits relative to t. Walking stops at the
// first non-nil error returned by fn.
func Refs(t Type, fn func(path string, r *Ref) error) error {
	return walkRefs(t, "", fn)
}

func walkRefs(t Type, path string, fn func(string, *Ref) error) error {
	switch v := t.(type) {
	case *Ref:
		return fn(path, v)
	case *List:
		return walkRefs(v.Elem, path+"[]", fn)
	case *Optional:
		return walkRefs(v.Elem, path+"?", fn)
	case *Object:
		for _, f := range v.Fields {
			p := f.Name
			if path != "" {
				p = path + "." + f.Name
			}
			if err := walkRefs(f.Type, p, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
