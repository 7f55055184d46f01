package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/frostline/vofc-engine/internal/types"
)

// PersistResult mirrors a finalized pipeline result into the submission
// tables, one batch per table, in dependency order: sources, then
// vulnerabilities, then options, then links, then option-source
// associations. Each batch is all-or-nothing; the sequence is not.
func (db *DB) PersistResult(ctx context.Context, result *types.Result) error {
	if err := db.insertSources(ctx, result); err != nil {
		return err
	}
	if err := db.insertVulnerabilities(ctx, result); err != nil {
		return err
	}
	if err := db.insertOFCs(ctx, result); err != nil {
		return err
	}
	if err := db.insertLinks(ctx, result); err != nil {
		return err
	}
	if err := db.insertOFCSources(ctx, result); err != nil {
		return err
	}

	fmt.Printf("Persisted submission %s: %d vulnerabilities, %d OFCs, %d sources\n",
		result.SubmissionID, len(result.Vulnerabilities), len(result.OFCs), len(result.Sources))
	return nil
}

func (db *DB) insertSources(ctx context.Context, result *types.Result) error {
	batch := &pgx.Batch{}
	for _, s := range result.Sources {
		batch.Queue(
			`INSERT INTO submission_sources (id, submission_id, title, authors, organization, publication_date, document_number, url, source_text)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			s.ID, result.SubmissionID,
			truncate(s.Title, maxTitleLen),
			strings.Join(s.Authors, "; "),
			s.Organization, s.PublicationDate, s.DocumentNumber,
			truncate(s.URL, maxURLLen),
			truncate(s.SourceText, maxSourceTextLen),
		)
	}
	return db.sendBatch(ctx, "submission_sources", batch)
}

func (db *DB) insertVulnerabilities(ctx context.Context, result *types.Result) error {
	batch := &pgx.Batch{}
	for _, v := range result.Vulnerabilities {
		batch.Queue(
			`INSERT INTO submission_vulnerabilities (id, submission_id, question, title, description, what, so_what, sector, subsector, discipline, category, severity)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			v.ID, result.SubmissionID, v.Question,
			truncate(v.Title, maxTitleLen),
			truncate(v.Description, maxBodyTextLen),
			v.What, v.SoWhat, v.Sector, v.Subsector, v.Discipline,
			truncate(v.Category, maxCategoryLen),
			v.Severity,
		)
	}
	return db.sendBatch(ctx, "submission_vulnerabilities", batch)
}

func (db *DB) insertOFCs(ctx context.Context, result *types.Result) error {
	batch := &pgx.Batch{}
	for _, o := range result.OFCs {
		batch.Queue(
			`INSERT INTO submission_options_for_consideration (id, submission_id, vulnerability_id, option_text, description, discipline, confidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			o.ID, result.SubmissionID, o.VulnerabilityID,
			truncate(o.Title, maxBodyTextLen),
			truncate(o.Description, maxBodyTextLen),
			o.Discipline, o.Confidence,
		)
	}
	return db.sendBatch(ctx, "submission_options_for_consideration", batch)
}

func (db *DB) insertLinks(ctx context.Context, result *types.Result) error {
	batch := &pgx.Batch{}
	for _, o := range result.OFCs {
		batch.Queue(
			`INSERT INTO submission_vulnerability_ofc_links (submission_id, vulnerability_id, ofc_id, strength)
			 VALUES ($1, $2, $3, $4)`,
			result.SubmissionID, o.VulnerabilityID, o.ID, o.Confidence,
		)
	}
	return db.sendBatch(ctx, "submission_vulnerability_ofc_links", batch)
}

func (db *DB) insertOFCSources(ctx context.Context, result *types.Result) error {
	if len(result.Sources) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, o := range result.OFCs {
		for _, s := range result.Sources {
			batch.Queue(
				`INSERT INTO submission_ofc_sources (submission_id, ofc_id, source_id)
				 VALUES ($1, $2, $3)`,
				result.SubmissionID, o.ID, s.ID,
			)
		}
	}
	return db.sendBatch(ctx, "submission_ofc_sources", batch)
}

// sendBatch executes one table's batch and drains every queued result so a
// mid-batch error is surfaced.
func (db *DB) sendBatch(ctx context.Context, table string, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}

	results := db.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return &PersistenceError{Table: table, Cause: err}
		}
	}
	return nil
}
