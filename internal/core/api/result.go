package api

// Result is the outcome of a remote operation: either a Value or an Err, never both.
type Result[T any] struct {
	Value T
	Err   *ResponseError
}

// OK reports whether the operation succeeded
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Get unpacks the result in the usual Go shape. The error is a nil interface on success.
func (r Result[T]) Get() (T, error) {
	if r.Err != nil {
		return r.Value, r.Err
	}
	return r.Value, nil
}

func succeed[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func fail[T any](err *ResponseError) Result[T] {
	return Result[T]{Err: err}
}
