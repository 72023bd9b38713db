package all

import (
	"testing"

	"github.com/dylantanyz/zoomcamp2024/internal/config"
	"github.com/dylantanyz/zoomcamp2024/internal/storage"
)

// TestAllKnownKindsRegistered keeps config.KnownStorageKinds and the linked
// backends in sync.
func TestAllKnownKindsRegistered(t *testing.T) {
	registered := map[string]bool{}
	for _, k := range storage.ListKinds() {
		registered[k] = true
	}
	for _, k := range config.KnownStorageKinds {
		if !registered[k] {
			t.Fatalf("storage kind %q is accepted by config but not registered", k)
		}
	}
}
