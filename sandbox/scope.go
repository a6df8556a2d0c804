package sandbox

import (
	"context"

	"go.uber.org/multierr"
)

// With runs fn against a freshly started sandbox and guarantees teardown on
// every exit path: the sandbox is stopped and the transport released whether
// fn returns normally, fn fails, or Start itself fails. A teardown failure
// never suppresses an earlier error; both are combined into the returned
// error and remain observable through errors.Is.
//
// Teardown runs with a context detached from ctx's cancellation so that a
// canceled body does not also doom the stop call.
func With(ctx context.Context, lang Language, fn func(context.Context, *Sandbox) error, opts ...Option) (err error) {
	s := New(lang, opts...)
	defer func() {
		err = multierr.Append(err, s.Stop(context.WithoutCancel(ctx)))
		s.Close()
	}()

	if err := s.Start(ctx); err != nil {
		return err
	}
	return fn(ctx, s)
}
