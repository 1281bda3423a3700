package memory_test

import (
	"context"
	"testing"
	"time"

	"shopcatalog/internal/adapter/cache/memory"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

type payload struct {
	Name  string
	Count int
}

func TestCache_SetAndGet(t *testing.T) {
	RegisterTestingT(t)
	cache := memory.New()

	err := cache.Set(context.Background(), "product:1", payload{Name: "Keyboard", Count: 3}, time.Minute)
	Expect(err).To(BeNil())

	var out payload
	found, err := cache.Get(context.Background(), "product:1", &out)

	Expect(err).To(BeNil())
	Expect(found).To(BeTrue())
	Expect(out.Name).To(Equal("Keyboard"))
	Expect(out.Count).To(Equal(3))
}

func TestCache_GetMiss(t *testing.T) {
	RegisterTestingT(t)
	cache := memory.New()

	var out payload
	found, err := cache.Get(context.Background(), "product:404", &out)

	Expect(err).To(BeNil())
	Expect(found).To(BeFalse())
}

func TestCache_EntriesExpire(t *testing.T) {
	RegisterTestingT(t)
	cache := memory.New()

	err := cache.Set(context.Background(), "product:1", payload{Name: "Mouse"}, 10*time.Millisecond)
	assert.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	var out payload
	found, _ := cache.Get(context.Background(), "product:1", &out)

	Expect(found).To(BeFalse())
}

func TestCache_Delete(t *testing.T) {
	RegisterTestingT(t)
	cache := memory.New()

	_ = cache.Set(context.Background(), "product:1", payload{}, time.Minute)
	_ = cache.Set(context.Background(), "product:2", payload{}, time.Minute)

	err := cache.Delete(context.Background(), "product:1", "product:2")
	Expect(err).To(BeNil())

	var out payload
	found, _ := cache.Get(context.Background(), "product:1", &out)
	Expect(found).To(BeFalse())
}

func TestCache_DeletePattern_OnlyMatchesPrefix(t *testing.T) {
	RegisterTestingT(t)
	cache := memory.New()

	_ = cache.Set(context.Background(), "product:list:abc", payload{}, time.Minute)
	_ = cache.Set(context.Background(), "product:list:def", payload{}, time.Minute)
	_ = cache.Set(context.Background(), "product:7", payload{Name: "kept"}, time.Minute)

	err := cache.DeletePattern(context.Background(), "product:list:*")
	Expect(err).To(BeNil())

	var out payload
	found, _ := cache.Get(context.Background(), "product:list:abc", &out)
	Expect(found).To(BeFalse())

	found, _ = cache.Get(context.Background(), "product:7", &out)
	Expect(found).To(BeTrue())
	Expect(out.Name).To(Equal("kept"))
}
