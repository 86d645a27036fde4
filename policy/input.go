package policy

// ClientMetadata is the open registration payload: arbitrary string keys
// mapped to arbitrary JSON-typed values. The contract imposes no fixed
// field set, so rules access fields by explicit lookup and type check.
type ClientMetadata map[string]interface{}

// Field returns the raw value for key, and whether the key was present.
func (m ClientMetadata) Field(key string) (val interface{}, present bool) {
	val, present = m[key]
	return
}

// StringField returns the value for key if it is present and a string.
func (m ClientMetadata) StringField(key string) (val string, ok bool) {
	v, present := m[key]
	if !present {
		return
	}

	val, ok = v.(string)
	return
}

// StringsField returns the value for key if it is present and a list whose
// elements are all strings.
func (m ClientMetadata) StringsField(key string) (vals []string, ok bool) {
	v, present := m[key]
	if !present {
		return
	}

	list, isList := v.([]interface{})
	if !isList {
		return
	}

	vals = make([]string, 0, len(list))
	for _, item := range list {
		s, isString := item.(string)
		if !isString {
			vals = nil
			return
		}
		vals = append(vals, s)
	}

	ok = true
	return
}

// Requester is the ambient context of a registration attempt. Either field
// may be empty, meaning unknown. An unknown field is never malformed input.
type Requester struct {
	IPAddress string
	UserAgent string
}

// PolicyInput is a canonicalized registration request ready for rule
// evaluation. Both fields are always set by the normalizer; the contents of
// ClientMetadata and the fields of Requester remain optional.
type PolicyInput struct {
	ClientMetadata ClientMetadata
	Requester      Requester
}
