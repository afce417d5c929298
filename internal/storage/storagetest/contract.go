// Package storagetest holds the behaviour every storage.Provider must share.
package storagetest

import (
	"reflect"
	"testing"

	"github.com/tranaapp/trana/internal/storage"
)

// Run exercises p, which must be initialized and empty.
func Run(t *testing.T, p storage.Provider) {
	t.Helper()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := p.Get("trana_missing")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok || v != nil {
			t.Errorf("Get() = %q, %v, want nil, false", v, ok)
		}
	})

	t.Run("set get overwrite", func(t *testing.T) {
		if err := p.Set("trana_food_items", []byte(`[{"id":"a"}]`)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := p.Set("trana_food_items", []byte(`[]`)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		v, ok, err := p.Get("trana_food_items")
		if err != nil || !ok {
			t.Fatalf("Get() = %v, %v", ok, err)
		}
		if string(v) != `[]` {
			t.Errorf("Get() = %s, want []", v)
		}
	})

	t.Run("list keys by prefix", func(t *testing.T) {
		for _, k := range []string{"trana_badges", "trana_user_profile", "learnStats", "Trāṇa_food_items"} {
			if err := p.Set(k, []byte(`1`)); err != nil {
				t.Fatalf("Set(%s) error = %v", k, err)
			}
		}

		got, err := p.ListKeys("trana_")
		if err != nil {
			t.Fatalf("ListKeys() error = %v", err)
		}
		want := []string{"trana_badges", "trana_food_items", "trana_user_profile"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ListKeys(trana_) = %v, want %v", got, want)
		}

		legacy, err := p.ListKeys("Trāṇa_")
		if err != nil {
			t.Fatalf("ListKeys() error = %v", err)
		}
		if !reflect.DeepEqual(legacy, []string{"Trāṇa_food_items"}) {
			t.Errorf("ListKeys(Trāṇa_) = %v", legacy)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := p.Remove("trana_badges"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if err := p.Remove("trana_badges"); err != nil {
			t.Fatalf("Remove() of missing key error = %v", err)
		}
		if _, ok, _ := p.Get("trana_badges"); ok {
			t.Error("key still present after Remove()")
		}
	})

	t.Run("non json value round trips as stored", func(t *testing.T) {
		if err := p.Set("trana_carbon_savings", []byte(`12.5`)); err != nil {
			t.Fatal(err)
		}
		v, _, err := p.Get("trana_carbon_savings")
		if err != nil {
			t.Fatal(err)
		}
		if string(v) != "12.5" {
			t.Errorf("Get() = %s, want 12.5", v)
		}
	})
}
