package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvloznov/user-events-etl/internal/gcs"
	infra "github.com/dvloznov/user-events-etl/internal/infra/bigquery"
	"github.com/dvloznov/user-events-etl/internal/logger"
)

// Pipeline processes one uploaded file per invocation: fetch, parse,
// normalize, enrich, enforce schema, load, report. It holds no state
// between invocations; concurrent invocations share nothing but the
// target table.
type Pipeline struct {
	storage  ObjectFetcher
	repo     EventWriter
	policies Policies
	enforcer *Enforcer

	maxReportedErrors int

	// now is swappable for deterministic tests.
	now func() time.Time
}

// New creates a pipeline bound to one storage service and one target
// table. policies and maxReportedErrors come from process configuration.
func New(storage ObjectFetcher, repo EventWriter, policies Policies, maxReportedErrors int) *Pipeline {
	return &Pipeline{
		storage:           storage,
		repo:              repo,
		policies:          policies,
		enforcer:          NewEnforcer(infra.UserEventsSchema()),
		maxReportedErrors: maxReportedErrors,
		now:               time.Now,
	}
}

// ProcessObject runs one invocation for one uploaded file. It returns the
// invocation report in every case; the error is non-nil only for the
// fatal classes (ingest, parse, schema mismatch, load, or every row
// rejected). Rejected rows alone are reported, not fatal.
func (p *Pipeline) ProcessObject(ctx context.Context, ref gcs.ObjectRef) (*Report, error) {
	log := logger.FromContext(ctx)
	report := NewReport(ref.URI(), p.maxReportedErrors)

	if !ref.IsCSV() {
		report.Skip()
		log.Info().Str("object", ref.URI()).Msg("Skipping non-CSV object")
		report.Log(log)
		return report, nil
	}

	data, err := p.storage.FetchObject(ctx, ref)
	if err != nil {
		ingestErr := &IngestError{URI: ref.URI(), Err: err}
		report.RecordError(StageIngest, -1, ingestErr)
		report.Fail()
		report.Log(log)
		return report, ingestErr
	}

	raws, err := ParseCSV(data)
	if err != nil {
		report.RecordError(StageParse, -1, err)
		report.Fail()
		report.Log(log)
		return report, err
	}
	report.RowsRead = len(raws)

	// One processing instant per invocation: the normalizer's timestamp
	// fallback and the enricher's processing_datetime share it.
	processingTime := p.now().UTC()

	rows := make([]*infra.UserEventRow, 0, len(raws))
	for i, raw := range raws {
		typed, err := p.policies.Normalize(raw, processingTime)
		if err != nil {
			report.RowsRejected++
			report.RecordError(StageNormalize, i, err)
			continue
		}
		report.RowsNormalized++

		enriched := p.policies.Enrich(typed, processingTime)

		row, err := p.enforcer.Conform(enriched)
		if err != nil {
			report.RecordError(StageSchema, i, err)
			report.Fail()
			report.Log(log)
			return report, err
		}
		rows = append(rows, row)
	}

	if len(rows) > 0 {
		if err := NewLoader(p.repo).Load(ctx, rows); err != nil {
			var loadErr *LoadError
			if errors.As(err, &loadErr) {
				for _, rowIdx := range loadErr.Rows {
					report.RecordError(StageLoad, rowIdx, loadErr.Err)
				}
				if len(loadErr.Rows) == 0 {
					report.RecordError(StageLoad, -1, loadErr)
				}
			}
			report.Fail()
			report.Log(log)
			return report, err
		}
		report.RowsLoaded = len(rows)
	}

	report.Finalize()
	report.Log(log)

	if total, err := p.repo.TableRowCount(ctx); err == nil {
		log.Info().
			Str("invocation_id", report.InvocationID).
			Uint64("table_total_rows", total).
			Msg("Target table row count after load")
	}

	if report.Status == StatusFailed {
		return report, fmt.Errorf("ProcessObject: all %d rows rejected at normalize", report.RowsRejected)
	}
	return report, nil
}
