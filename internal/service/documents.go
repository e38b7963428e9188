package service

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/extract"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// ListDocuments returns the learner's documents in upload order.
func (s *studyServiceImpl) ListDocuments(ctx context.Context, learnerID uuid.UUID) ([]domain.Document, error) {
	var docs []domain.Document
	err := s.withWorkspace(ctx, learnerID, func(ws *workspace) error {
		docs = slices.Clone(ws.documents)
		return nil
	})
	return docs, err
}

// UploadDocument extracts the text of an uploaded file and stores it as a new document.
func (s *studyServiceImpl) UploadDocument(
	ctx context.Context,
	learnerID uuid.UUID,
	filename string,
	data []byte,
) (DocumentResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	extraction, err := extract.Extract(filename, data)
	if err != nil {
		log.WarnContext(ctx, "rejected upload",
			"learner_id", learnerID,
			"size", len(data),
			"error", err)
		return DocumentResult{}, NewStudyServiceError("upload_document", "failed to extract text", err)
	}

	doc, err := domain.NewDocument(filename, extraction.Kind, extraction.Text, extraction.PageCount, s.opts.Clock())
	if err != nil {
		return DocumentResult{}, NewStudyServiceError("upload_document", "failed to create document", err)
	}

	var result DocumentResult
	err = s.withWorkspace(ctx, learnerID, func(ws *workspace) error {
		ws.documents = append(ws.documents, doc)
		result = DocumentResult{Document: doc, Synced: s.persist(ctx, learnerID, ws, store.KeyDocuments)}
		return nil
	})
	if err != nil {
		return DocumentResult{}, err
	}

	log.InfoContext(ctx, "document uploaded",
		"learner_id", learnerID,
		"document_id", doc.ID,
		"kind", doc.Kind,
		"pages", doc.PageCount,
		"text_length", len(doc.RawText))
	return result, nil
}

// DeleteDocument removes a document. Items generated from it are kept.
func (s *studyServiceImpl) DeleteDocument(ctx context.Context, learnerID, documentID uuid.UUID) (bool, error) {
	var synced bool
	err := s.withWorkspace(ctx, learnerID, func(ws *workspace) error {
		i := slices.IndexFunc(ws.documents, func(d domain.Document) bool { return d.ID == documentID })
		if i < 0 {
			return ErrDocumentNotFound
		}
		ws.documents = slices.Delete(slices.Clone(ws.documents), i, i+1)
		synced = s.persist(ctx, learnerID, ws, store.KeyDocuments)
		return nil
	})
	return synced, err
}

// Generate implements StudyService.
func (s *studyServiceImpl) Generate(
	ctx context.Context,
	learnerID, documentID uuid.UUID,
	kinds []domain.ItemKind,
	count int,
) (GenerateResult, error) {
	if len(kinds) == 0 {
		kinds = s.opts.DefaultKinds
	}
	if count == 0 {
		count = s.opts.ItemsPerGeneration
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result GenerateResult
	err := s.withWorkspace(ctx, learnerID, func(ws *workspace) error {
		i := slices.IndexFunc(ws.documents, func(d domain.Document) bool { return d.ID == documentID })
		if i < 0 {
			return ErrDocumentNotFound
		}

		items, err := s.generator.Generate(ctx, generation.Request{
			Text:       ws.documents[i].RawText,
			Kinds:      kinds,
			Count:      count,
			DocumentID: documentID,
		})
		if err != nil {
			log.WarnContext(ctx, "generation failed",
				"learner_id", learnerID,
				"document_id", documentID,
				"error", err)
			return NewStudyServiceError("generate", "failed to generate items", err)
		}

		ws.documents = slices.Clone(ws.documents)
		// the count reflects the latest batch, not the running total
		ws.documents[i].DerivedItemCount = len(items)
		ws.session = ws.session.Append(items)

		result = GenerateResult{
			Document: ws.documents[i],
			Items:    items,
			Synced:   s.persist(ctx, learnerID, ws, store.KeyDocuments, store.KeyStudyMaterials),
		}
		return nil
	})
	if err != nil {
		return GenerateResult{}, err
	}

	log.InfoContext(ctx, "generated study items",
		"learner_id", learnerID,
		"document_id", documentID,
		"count", len(result.Items))
	return result, nil
}
