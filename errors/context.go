package errors

// WithContext returns a copy of the error with an additional key/value
// pair attached. The original error is not mutated; context maps are
// copied on write so errors stay safe to share.
//
// Example:
//
//	err = errors.WithContext(err, "artifact", name)
//	err = errors.WithContext(err, "backend", backend.Kind().String())
func WithContext(err Error, key string, value interface{}) Error {
	if err == nil {
		return nil
	}

	base, ok := err.(*thumbError)
	if !ok {
		// Foreign implementation: rebuild on top of it.
		return WrapWithContext(err, err.Code(), err.Message(),
			map[string]interface{}{key: value})
	}

	ctx := make(map[string]interface{}, len(base.context)+1)
	for k, v := range base.context {
		ctx[k] = v
	}
	ctx[key] = value

	return &thumbError{
		code:     base.code,
		severity: base.severity,
		message:  base.message,
		context:  ctx,
		cause:    base.cause,
	}
}
