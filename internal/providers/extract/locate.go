package extract

// Locator finds the array of tee-time objects inside a decoded payload.
// Find reports ok when the array it looks for exists, even if it is empty.
type Locator struct {
	Name string
	Find func(payload any) ([]Item, bool)
}

// Locate runs locators in order and returns the items of the first one that
// recognizes the payload. An empty list with ok set means the upstream answered
// with nothing available; ok false means no locator understood the shape.
func Locate(payload any, locators []Locator) ([]Item, string, bool) {
	for _, l := range locators {
		if l.Find == nil {
			continue
		}
		if items, ok := l.Find(payload); ok {
			return items, l.Name, true
		}
	}
	return nil, "", false
}

// RootArray matches a payload that is itself an array of objects.
func RootArray() Locator {
	return Locator{
		Name: "$",
		Find: objects,
	}
}

// Key matches an array of objects under a top-level key, optionally nested.
func Key(path ...string) Locator {
	name := "$"
	for _, p := range path {
		name += "." + p
	}
	return Locator{
		Name: name,
		Find: func(payload any) ([]Item, bool) {
			root, ok := payload.(map[string]any)
			if !ok {
				return nil, false
			}
			v, ok := At(root, path...)
			if !ok {
				return nil, false
			}
			return objects(v)
		},
	}
}

// Flatten matches a root array whose objects each hold an array under key,
// concatenating the inner arrays (one group per facility or course).
func Flatten(key string) Locator {
	return Locator{
		Name: "$[*]." + key,
		Find: func(payload any) ([]Item, bool) {
			groups, ok := objects(payload)
			if !ok {
				return nil, false
			}
			var out []Item
			found := false
			for _, g := range groups {
				inner, ok := objects(g[key])
				if ok {
					found = true
					out = append(out, inner...)
				}
			}
			return out, found
		},
	}
}

// objects returns the object elements of an array. ok is false when v is not an array.
func objects(v any) ([]Item, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]Item, 0, len(arr))
	for _, el := range arr {
		if obj, ok := el.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out, true
}
