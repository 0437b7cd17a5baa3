package service

import "context"

type trackIDKey struct{}

func WithTrackID(ctx context.Context, trackID string) context.Context {
	return context.WithValue(ctx, trackIDKey{}, trackID)
}

func TrackID(ctx context.Context) string {
	if id, ok := ctx.Value(trackIDKey{}).(string); ok {
		return id
	}
	return ""
}
