//go:build integration || !unit

package mongo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hasratyan/aoryx.am/internal/domain"
	mongorepo "github.com/hasratyan/aoryx.am/internal/storage/mongo"
)

func pstr(s string) *string { return &s }

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mongo: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	uri := fmt.Sprintf("mongodb://127.0.0.1:%s", resource.GetPort("27017/tcp"))
	var client *mongo.Client
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var e error
		client, e = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if e != nil {
			return e
		}
		return client.Ping(ctx, nil)
	}); err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return client.Database("aoryx_test")
}

func TestRepo_Mongo_FavoriteLifecycle(t *testing.T) {
	db := startMongo(t)
	repo := mongorepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	fav := domain.Favorite{
		UserID:    "u1",
		HotelCode: "H100",
		Name:      pstr("Grand Hotel"),
		City:      pstr("Yerevan"),
		Source:    "aoryx",
		SavedAt:   now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Upsert(ctx, fav); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.Get(ctx, "u1", "H100")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name == nil || *got.Name != "Grand Hotel" || got.UserID != "u1" {
		t.Fatalf("unexpected favorite: %+v", got)
	}

	// second upsert must update, not duplicate
	fav.Name = pstr("Renamed")
	if err := repo.Upsert(ctx, fav); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	list, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || *list[0].Name != "Renamed" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := repo.Delete(ctx, "u1", "H100"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "u1", "H100"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "u1", "H100"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestRepo_Mongo_ListSortedAndScoped(t *testing.T) {
	db := startMongo(t)
	repo := mongorepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, code := range []string{"A", "B", "C"} {
		f := domain.Favorite{
			UserID:    "u1",
			HotelCode: code,
			Source:    "aoryx",
			SavedAt:   base.Add(time.Duration(i) * time.Minute),
			CreatedAt: base,
			UpdatedAt: base,
		}
		if err := repo.Upsert(ctx, f); err != nil {
			t.Fatalf("Upsert %s: %v", code, err)
		}
	}
	other := domain.Favorite{UserID: "u2", HotelCode: "Z", Source: "aoryx", SavedAt: base, CreatedAt: base, UpdatedAt: base}
	if err := repo.Upsert(ctx, other); err != nil {
		t.Fatalf("Upsert other user: %v", err)
	}

	list, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 favorites for u1, got %d", len(list))
	}
	// newest saved first
	if list[0].HotelCode != "C" || list[2].HotelCode != "A" {
		t.Fatalf("unexpected order: %+v", list)
	}
}
