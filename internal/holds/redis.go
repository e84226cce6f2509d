package holds

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Index mirrors seat holds into Redis with a TTL so seat maps can answer
// "is this seat held right now" without scanning hold rows. The database
// hold table stays the source of truth; a nil *Index degrades to DB-only.
type Index struct {
	client *redis.Client
}

func NewIndex(addr string) *Index {
	if addr == "" {
		return nil
	}
	return &Index{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func holdKey(tripID int64, seatCode string) string {
	return fmt.Sprintf("trip:%d:hold:%s", tripID, seatCode)
}

// Place records a hold with the given TTL.
func (i *Index) Place(ctx context.Context, tripID int64, seatCode string, bookingID int64, ttl time.Duration) error {
	if i == nil || i.client == nil {
		return nil
	}
	return i.client.Set(ctx, holdKey(tripID, seatCode), bookingID, ttl).Err()
}

// Release drops holds after they are booked or cancelled.
func (i *Index) Release(ctx context.Context, tripID int64, seatCodes ...string) error {
	if i == nil || i.client == nil || len(seatCodes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(seatCodes))
	for _, s := range seatCodes {
		keys = append(keys, holdKey(tripID, s))
	}
	return i.client.Del(ctx, keys...).Err()
}

// Held reports whether a live (unexpired) hold exists for the seat.
func (i *Index) Held(ctx context.Context, tripID int64, seatCode string) (bool, error) {
	if i == nil || i.client == nil {
		return false, nil
	}
	n, err := i.client.Exists(ctx, holdKey(tripID, seatCode)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (i *Index) Close() {
	if i == nil || i.client == nil {
		return
	}
	_ = i.client.Close()
}
