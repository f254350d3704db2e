package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	data map[string][]byte
	sets int
}

func (m *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.data[key] = b
	m.sets++
	return nil
}

func (m *memCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	c := &memCache{data: map[string][]byte{}}
	loads := 0
	load := func(context.Context) (map[string]int, error) {
		loads++
		return map[string]int{"dau": 3}, nil
	}

	v, err := Remember(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 3, v["dau"])

	v, err = Remember(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 3, v["dau"])
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, c.sets)
}

func TestRememberWithoutCache(t *testing.T) {
	loads := 0
	_, err := Remember(context.Background(), nil, "k", time.Minute, func(context.Context) (int, error) {
		loads++
		return 1, nil
	})
	require.NoError(t, err)

	_, err = Remember(context.Background(), nil, "k", time.Minute, func(context.Context) (int, error) {
		loads++
		return 0, errors.New("db down")
	})
	assert.Error(t, err)
	assert.Equal(t, 2, loads)
}
