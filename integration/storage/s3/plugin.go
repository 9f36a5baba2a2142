package s3

import (
	"context"

	"github.com/dmitrymomot/relay/core/plugin"
)

// PluginName is the registry name of the S3 plugin.
const PluginName = "s3"

// Plugin describes an S3 bucket whose API is the *Bucket itself. Registration
// fails when the bucket is not reachable.
func Plugin[A any](cfg Config, opts ...Option) plugin.Descriptor[A] {
	return plugin.Descriptor[A]{
		Name:    PluginName,
		Options: cfg,
		Register: func(ctx context.Context, _ A, o any) (any, error) {
			c, ok := o.(Config)
			if !ok {
				c = cfg
			}
			b, err := New(ctx, c, opts...)
			if err != nil {
				return nil, err
			}
			if err := b.Check(ctx); err != nil {
				return nil, err
			}
			return b, nil
		},
	}
}
