package service

import "time"

type serviceOptions struct {
	now func() time.Time
}

type Option func(*serviceOptions)

// WithNowFunc overrides the service's time source. All temporal
// comparisons inside one operation use a single sample of it.
func WithNowFunc(now func() time.Time) Option {
	return func(o *serviceOptions) {
		o.now = now
	}
}

func newServiceOptions(opts ...Option) *serviceOptions {
	o := &serviceOptions{now: time.Now}
	for _, fn := range opts {
		fn(o)
	}
	return o
}
