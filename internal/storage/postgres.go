/**
 * PostgreSQL Client for the redaction worker
 *
 * Persists job lifecycle metadata only: status, document type, counts and
 * timings. Extracted PII values and OCR text are never written to the
 * database.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresClient handles database operations
type PostgresClient struct {
	db *sql.DB
}

// JobUpdate represents a job status update
type JobUpdate struct {
	JobID            string
	Status           string
	DocumentType     string
	MaskedFieldCount int
	RegionCount      int
	Confidence       float64 // 0-100, mean OCR word confidence
	ProcessingTimeMs int64
	OutputPath       string
	ErrorCode        string
	ErrorMessage     string
	Metadata         map[string]interface{}
}

// sanitizeConfidence rounds confidence to 2 decimal places and clamps it to
// [0, 100]. PostgreSQL FLOAT can carry excess precision (e.g. 96.32000000001)
// which breaks NUMERIC casts downstream.
func sanitizeConfidence(confidence float64) float64 {
	if confidence < 0.0 {
		return 0.0
	}
	if confidence > 100.0 {
		return 100.0
	}
	return float64(int(confidence*100+0.5)) / 100
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(databaseURL string) (*PostgresClient, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	// Connect to database
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{db: db}, nil
}

// UpdateJobStatus updates job status in the database. UPSERT so the worker
// can create the row when it sees a job before the API does.
func (p *PostgresClient) UpdateJobStatus(ctx context.Context, update *JobUpdate) error {
	if update.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	if update.Status == "" {
		return fmt.Errorf("status is required")
	}

	sanitizedConfidence := sanitizeConfidence(update.Confidence)

	// Convert metadata to JSONB
	metadataJSON, err := json.Marshal(update.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO redaction.jobs (
			id, filename, mime_type, file_size,
			status, document_type, masked_field_count, region_count,
			confidence, processing_time_ms, output_path,
			error_code, error_message, metadata,
			created_at, updated_at
		) VALUES (
			$1::uuid, COALESCE($12, 'unknown'), COALESCE($13, 'application/octet-stream'),
			COALESCE($14, 0),
			$2, NULLIF($3, ''), $4, $5,
			NULLIF($6::NUMERIC(5,2), 0), NULLIF($7, 0), NULLIF($8, ''),
			NULLIF($9, ''), NULLIF($10, ''),
			COALESCE($11::jsonb, '{}'::jsonb),
			NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			document_type = COALESCE(NULLIF(EXCLUDED.document_type, ''), redaction.jobs.document_type),
			masked_field_count = GREATEST(EXCLUDED.masked_field_count, redaction.jobs.masked_field_count),
			region_count = GREATEST(EXCLUDED.region_count, redaction.jobs.region_count),
			confidence = COALESCE(NULLIF(EXCLUDED.confidence::NUMERIC(5,2), 0), redaction.jobs.confidence),
			processing_time_ms = COALESCE(NULLIF(EXCLUDED.processing_time_ms, 0), redaction.jobs.processing_time_ms),
			output_path = COALESCE(NULLIF(EXCLUDED.output_path, ''), redaction.jobs.output_path),
			error_code = NULLIF(EXCLUDED.error_code, ''),
			error_message = NULLIF(EXCLUDED.error_message, ''),
			metadata = COALESCE(EXCLUDED.metadata, redaction.jobs.metadata),
			filename = COALESCE(EXCLUDED.filename, redaction.jobs.filename),
			mime_type = COALESCE(EXCLUDED.mime_type, redaction.jobs.mime_type),
			file_size = COALESCE(NULLIF(EXCLUDED.file_size, 0), redaction.jobs.file_size),
			updated_at = NOW()
		RETURNING id
	`

	// Extract file details from metadata if present
	var filename, mimeType string
	var fileSize int64
	if update.Metadata != nil {
		if fn, ok := update.Metadata["filename"].(string); ok {
			filename = fn
		}
		if mt, ok := update.Metadata["mimeType"].(string); ok {
			mimeType = mt
		}
		if fs, ok := update.Metadata["fileSize"].(int64); ok {
			fileSize = fs
		} else if fs, ok := update.Metadata["fileSize"].(float64); ok {
			fileSize = int64(fs)
		}
	}

	var returnedID string
	err = p.db.QueryRowContext(
		ctx,
		query,
		update.JobID,            // $1 - id
		update.Status,           // $2 - status
		update.DocumentType,     // $3 - document_type
		update.MaskedFieldCount, // $4 - masked_field_count
		update.RegionCount,      // $5 - region_count
		sanitizedConfidence,     // $6 - confidence
		update.ProcessingTimeMs, // $7 - processing_time_ms
		update.OutputPath,       // $8 - output_path
		update.ErrorCode,        // $9 - error_code
		update.ErrorMessage,     // $10 - error_message
		metadataJSON,            // $11 - metadata
		filename,                // $12 - filename
		mimeType,                // $13 - mime_type
		fileSize,                // $14 - file_size
	).Scan(&returnedID)

	if err == sql.ErrNoRows {
		return fmt.Errorf("job not found: %s", update.JobID)
	}

	if err != nil {
		return fmt.Errorf("failed to update job status (job=%s, status=%s): %w",
			update.JobID, update.Status, err)
	}

	return nil
}

// GetJobByID retrieves a job by ID
func (p *PostgresClient) GetJobByID(ctx context.Context, jobID string) (map[string]interface{}, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job ID is required")
	}

	query := `
		SELECT
			id,
			filename,
			mime_type,
			file_size,
			status,
			document_type,
			masked_field_count,
			region_count,
			confidence,
			processing_time_ms,
			output_path,
			error_code,
			error_message,
			metadata,
			created_at,
			updated_at
		FROM redaction.jobs
		WHERE id = $1::uuid
	`

	var (
		id, filename                    string
		mimeType, status                sql.NullString
		fileSize                        sql.NullInt64
		documentType                    sql.NullString
		maskedFieldCount, regionCount   sql.NullInt64
		confidence                      sql.NullFloat64
		processingTimeMs                sql.NullInt64
		outputPath, errorCode, errorMsg sql.NullString
		metadataJSON                    []byte
		createdAt, updatedAt            time.Time
	)

	err := p.db.QueryRowContext(ctx, query, jobID).Scan(
		&id, &filename, &mimeType, &fileSize, &status,
		&documentType, &maskedFieldCount, &regionCount,
		&confidence, &processingTimeMs, &outputPath,
		&errorCode, &errorMsg,
		&metadataJSON, &createdAt, &updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	// Parse metadata
	var metadata map[string]interface{}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	// Build result map
	result := map[string]interface{}{
		"id":        id,
		"filename":  filename,
		"status":    status.String,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
		"metadata":  metadata,
	}

	if mimeType.Valid {
		result["mimeType"] = mimeType.String
	}
	if fileSize.Valid {
		result["fileSize"] = fileSize.Int64
	}
	if documentType.Valid {
		result["documentType"] = documentType.String
	}
	if maskedFieldCount.Valid {
		result["maskedFieldCount"] = maskedFieldCount.Int64
	}
	if regionCount.Valid {
		result["regionCount"] = regionCount.Int64
	}
	if confidence.Valid {
		result["confidence"] = confidence.Float64
	}
	if processingTimeMs.Valid {
		result["processingTimeMs"] = processingTimeMs.Int64
	}
	if outputPath.Valid {
		result["outputPath"] = outputPath.String
	}
	if errorCode.Valid {
		result["errorCode"] = errorCode.String
	}
	if errorMsg.Valid {
		result["errorMessage"] = errorMsg.String
	}

	return result, nil
}

// Ping checks database connectivity
func (p *PostgresClient) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database connection
func (p *PostgresClient) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// GetStats returns connection pool statistics
func (p *PostgresClient) GetStats() sql.DBStats {
	return p.db.Stats()
}
