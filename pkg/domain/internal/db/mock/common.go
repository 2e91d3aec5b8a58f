package mocks

// CallLog records the arguments a mock method was invoked with,
// in invocation order.
type CallLog[T any] []T

// Times counts the recorded invocations.
func (l CallLog[T]) Times() uint {
	return uint(len(l))
}
