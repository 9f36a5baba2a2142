// Package s3 stores objects in Amazon S3 or an S3-compatible service and
// registers the bucket as a relay plugin.
//
//	b, err := s3.New(ctx, s3.Config{Bucket: "uploads", Region: "eu-central-1"})
//	if err != nil {
//		return err
//	}
//	obj, err := b.Put(ctx, "avatars/42.png", file, "image/png")
//
// SDK errors are mapped onto sentinels such as ErrObjectNotFound and
// ErrAccessDenied. Keys containing ".." are rejected with ErrInvalidKey.
package s3
