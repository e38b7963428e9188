package store

import "context"

// Keys under which a learner's study state is stored.
const (
	KeyDocuments      = "documents"
	KeyStudyMaterials = "studyMaterials"
	KeyStudyStats     = "studyStats"
)

// AllKeys lists every key of a study snapshot.
var AllKeys = []string{KeyDocuments, KeyStudyMaterials, KeyStudyStats}

// BlobStore persists opaque blobs addressed by namespace and key.
type BlobStore interface {
	// Load returns the blob stored under namespace and key.
	// Returns ErrNotFound if nothing has been saved there.
	Load(ctx context.Context, namespace, key string) ([]byte, error)

	// Save stores blob under namespace and key, replacing any previous value.
	Save(ctx context.Context, namespace, key string, blob []byte) error

	// SaveMany stores several keys of one namespace atomically.
	SaveMany(ctx context.Context, namespace string, blobs map[string][]byte) error
}
