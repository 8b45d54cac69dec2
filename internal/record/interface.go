package record

// Kind discriminates the value types a batch entry can carry
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
)

// Entry is one timestamped (path, value) pair accumulated for publishing
type Entry struct {
	Path       string
	Kind       Kind
	IntValue   int64
	FloatValue float64
	Timestamp  uint64
}

// Value returns the entry's value as its dynamic type
func (e Entry) Value() any {
	if e.Kind == KindInt {
		return e.IntValue
	}

	return e.FloatValue
}
