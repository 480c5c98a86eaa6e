package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cardoctor/server/models"
	"github.com/google/uuid"
)

// decodeDocument turns a stored JSONB payload into a client document carrying "_id"
func decodeDocument(id uuid.UUID, raw []byte) (models.Document, error) {
	doc := models.Document{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
	}
	// a stored JSON null decodes to a nil map
	if doc == nil {
		doc = models.Document{}
	}
	doc[models.IDField] = id.String()
	return doc, nil
}

// scanDocuments reads (id, doc) rows. The result is never nil so an empty
// collection encodes as [].
func scanDocuments(rows *sql.Rows) ([]models.Document, error) {
	docs := make([]models.Document, 0)
	for rows.Next() {
		var (
			id  uuid.UUID
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc, err := decodeDocument(id, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}
