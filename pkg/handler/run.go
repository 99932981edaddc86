package handler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yumyai/ppp-onestep/internal/config"
	"github.com/yumyai/ppp-onestep/internal/fasta"
	"github.com/yumyai/ppp-onestep/internal/util"
	"github.com/yumyai/ppp-onestep/logger"
	"github.com/yumyai/ppp-onestep/pkg/model"
	"github.com/yumyai/ppp-onestep/pkg/render"
)

var (
	ErrSequenceFile = errors.New("sequence file does not exist")
	ErrOutputDir    = errors.New("output directory does not exist")
)

// Run invokes pepstats once, parses its report once and writes the summary
// table. The returned job is never nil and records how far the run got.
func (rc *RunContext) Run(ctx context.Context) (*Job, error) {

	job := NewJob()
	log := logger.With(zap.String("run_id", job.ID))

	fail := func(err error) (*Job, error) {
		job.Fail(err)
		log.Error("Run failed", zap.Error(err), zap.Duration("duration", job.Duration()))
		return job, err
	}

	if !util.FileExists(rc.SequenceFile) {
		return fail(fmt.Errorf("%w: %s", ErrSequenceFile, rc.SequenceFile))
	}
	if !util.DirExists(rc.OutputDir) {
		return fail(fmt.Errorf("%w: %s", ErrOutputDir, rc.OutputDir))
	}

	records := readSequences(log, rc.SequenceFile)
	job.InputSeqs = len(records)
	for _, rec := range records {
		if rec.Sequence == "" {
			log.Warn("Empty sequence in input", zap.String("sequence", rec.ID()))
			job.Warn(fmt.Sprintf("sequence %q in %s is empty", rec.ID(), rc.SequenceFile))
		}
	}

	log.Info("Start run",
		zap.String("sequence_file", rc.SequenceFile),
		zap.String("output_dir", rc.OutputDir),
		zap.String("policy", string(rc.Policy)),
		zap.Int("input_sequences", job.InputSeqs),
	)

	// Report generator
	job.SetRunning()
	reportPath, err := rc.Runner.Run(ctx, rc.SequenceFile, rc.OutputDir)
	job.ReportPath = reportPath
	if err != nil {
		if rc.Policy != config.PolicyLenient {
			return fail(fmt.Errorf("pepstats failed: %w", err))
		}
		log.Error("Error executing EMBOSS pepstats, continuing with existing report", zap.Error(err))
		job.Warn(fmt.Sprintf("pepstats failed: %v", err))
	}

	// Table writer first: the table is truncated before the report is read,
	// and every block's row is appended as soon as the block is parsed.
	job.TablePath = filepath.Join(rc.OutputDir, render.TableFileName)
	tw, err := render.CreateTable(job.TablePath)
	if err != nil {
		return fail(err)
	}

	// Report extractor
	blocks, err := extractReport(reportPath, tw)
	job.Rows = tw.Rows()
	if err != nil {
		return fail(err)
	}
	log.Debug("Report parsed", zap.String("report", reportPath), zap.Int("blocks", blocks))

	if blocks == 0 {
		log.Warn("No matches found.", zap.String("report", reportPath))
		if rc.Policy != config.PolicyLenient {
			return fail(fmt.Errorf("%w: %s", model.ErrNoRecords, reportPath))
		}
		job.Warn("no sequence blocks found in " + reportPath)
	}

	if job.InputSeqs > 0 && blocks != job.InputSeqs {
		msg := fmt.Sprintf("%d sequence(s) in %s but %d block(s) in report", job.InputSeqs, rc.SequenceFile, blocks)
		log.Warn("Sequence count mismatch", zap.Int("input_sequences", job.InputSeqs), zap.Int("blocks", blocks))
		job.Warn(msg)
	}

	job.Complete(tw.Rows())
	log.Info("Run completed",
		zap.String("table", job.TablePath),
		zap.Int("rows", job.Rows),
		zap.Duration("duration", job.Duration()),
	)

	return job, nil
}

// extractReport streams the report at path into the table.
func extractReport(path string, tw *render.TableWriter) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	n, err := model.ExtractReport(f, tw.AppendRow)
	if err != nil {
		return n, fmt.Errorf("failed to extract report %s: %w", path, err)
	}
	return n, nil
}

// readSequences returns the FASTA records in path, nil when the file cannot be
// read as FASTA. The records only feed consistency warnings.
func readSequences(log *zap.Logger, path string) []fasta.Record {
	f, err := os.Open(path)
	if err != nil {
		log.Warn("Could not open sequence file", zap.Error(err))
		return nil
	}
	defer f.Close()

	records, err := fasta.Parse(f)
	if err != nil {
		log.Warn("Could not read sequence file as FASTA", zap.Error(err))
		return nil
	}
	return records
}

// Summary converts a job into the closing message data.
func (rc *RunContext) Summary(job *Job) render.Summary {
	return render.Summary{
		RunID:        job.ID,
		Status:       string(job.Status),
		SequenceFile: rc.SequenceFile,
		ReportPath:   job.ReportPath,
		TablePath:    job.TablePath,
		InputSeqs:    job.InputSeqs,
		Rows:         job.Rows,
		Warnings:     job.Warnings,
	}
}
