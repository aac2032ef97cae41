package pipeline

import (
	"fmt"
	"time"

	"github.com/arloliu/splatpack/chunk"
	"github.com/arloliu/splatpack/errs"
	"github.com/arloliu/splatpack/eval"
	"github.com/arloliu/splatpack/internal/options"
	"github.com/arloliu/splatpack/morton"
	"github.com/arloliu/splatpack/quant"
	"github.com/arloliu/splatpack/remap"
	"github.com/arloliu/splatpack/splat"
	"github.com/sirupsen/logrus"
)

// Encoded is the result of Encode.
//
// Frame is the only bulk payload; Ranges and Permutation are the side data
// Decode needs to rebuild float records in their original order.
type Encoded struct {
	Frame       []byte
	Ranges      quant.Ranges
	Permutation morton.Permutation // nil when reordering is disabled
	Count       int
	Layout      splat.PackedLayout
	Stats       chunk.Stats
	Report      *eval.Report // set when WithEvaluate is enabled

	// QuantReport is the quantization error measured on the remapped
	// values, before the remap is reverted. Set when WithEvaluate is enabled.
	QuantReport *eval.Report
}

// PackedSize returns the size of the packed records inside Frame.
func (e *Encoded) PackedSize() int {
	return e.Count * e.Layout.Stride()
}

// Pipeline composes the transform stages:
//
//	encode: reorder → remap → ranges → quantize → filter+compress
//	decode: decompress+unfilter → dequantize → revert remap → restore order
//
// Float record buffers use splat.RecordStride bytes per record. A Pipeline is
// immutable and safe for concurrent use.
type Pipeline struct {
	codec        *chunk.Codec
	layout       splat.PackedLayout
	reorder      bool
	restoreOrder bool
	verify       bool
	evaluate     bool
	logger       logrus.FieldLogger
	metrics      *Metrics
}

// New creates a Pipeline.
func New(opts ...Option) (*Pipeline, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := chunk.NewCodec(cfg.codecOpts...)
	if err != nil {
		return nil, err
	}
	layout, err := splat.NewPackedLayout(cfg.channels)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		codec:        codec,
		layout:       layout,
		reorder:      cfg.reorder,
		restoreOrder: cfg.restoreOrder,
		verify:       cfg.verify,
		evaluate:     cfg.evaluate,
		logger:       cfg.logger,
		metrics:      cfg.metrics,
	}, nil
}

// Encode runs every stage over a float record buffer.
func Encode(records []byte, opts ...Option) (*Encoded, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return p.Encode(records)
}

// Decode reverses Encode. The options must select the same backend, filter
// and block size used to encode.
func Decode(enc *Encoded, opts ...Option) ([]byte, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return p.Decode(enc)
}

// Codec returns the framer used by the pipeline.
func (p *Pipeline) Codec() *chunk.Codec { return p.codec }

// Encode runs every stage over records, which is not modified.
func (p *Pipeline) Encode(records []byte) (*Encoded, error) {
	start := time.Now()
	enc, err := p.encode(records)
	p.metrics.observe("encode", start, err)
	if err == nil {
		p.metrics.observeEncoded(enc, len(records))
	}

	return enc, err
}

func (p *Pipeline) encode(records []byte) (*Encoded, error) {
	count, err := splat.RecordCount(records)
	if err != nil {
		return nil, err
	}

	log := p.logger.WithFields(logrus.Fields{
		"action":  "splatpack_encode",
		"records": count,
		"codec":   p.codec.Name(),
	})
	start := time.Now()

	enc := &Encoded{Count: count, Layout: p.layout}

	var work []byte
	stage := time.Now()
	if p.reorder {
		work, enc.Permutation, err = morton.Reorder(records)
		if err != nil {
			return nil, fmt.Errorf("reorder: %w", err)
		}
		log.WithField("took", time.Since(stage)).Debug("reordered records")
	} else {
		work = append([]byte(nil), records...)
	}

	stage = time.Now()
	if err := remap.Apply(work); err != nil {
		return nil, fmt.Errorf("remap: %w", err)
	}
	var remapped []byte
	if p.evaluate {
		remapped = append([]byte(nil), work...)
	}
	enc.Ranges, err = quant.ComputeRanges(work)
	if err != nil {
		return nil, fmt.Errorf("ranges: %w", err)
	}

	q, err := quant.NewQuantizer(enc.Ranges, quant.WithLayout(p.layout))
	if err != nil {
		return nil, err
	}
	packed, err := q.Pack(work)
	if err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}
	log.WithFields(logrus.Fields{
		"took":        time.Since(stage),
		"packed_size": len(packed),
	}).Debug("quantized records")

	enc.Frame, enc.Stats, err = p.codec.Encode(packed, p.layout.Stride())
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	if enc.Stats.Fallback {
		log.WithField("packed_size", len(packed)).Warn("frame did not compress, stored raw")
	}
	log.WithFields(logrus.Fields{
		"took":   enc.Stats.CompressDuration,
		"blocks": enc.Stats.Blocks,
	}).Debug("framed records")

	if p.verify {
		if err := p.verifyFrame(enc, packed); err != nil {
			log.WithError(err).Error("round trip verification failed")
			return nil, err
		}
	}

	if p.evaluate {
		unpacked, err := q.Unpack(packed)
		if err != nil {
			return nil, fmt.Errorf("dequantize: %w", err)
		}
		enc.QuantReport, err = eval.Compare(remapped, unpacked)
		if err != nil {
			return nil, err
		}

		decoded, err := p.decode(enc, true)
		if err != nil {
			return nil, err
		}
		enc.Report, err = eval.Compare(records, decoded)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"max_quant_error": enc.QuantReport.MaxError(),
			"max_rot_error":   enc.Report.RotationMax,
		}).Debug("evaluated round trip")
	}

	log.WithFields(logrus.Fields{
		"took":        time.Since(start),
		"input_size":  len(records),
		"framed_size": len(enc.Frame),
		"ratio":       enc.Stats.Ratio(),
		"fallback":    enc.Stats.Fallback,
	}).Info("encoded records")

	return enc, nil
}

func (p *Pipeline) verifyFrame(enc *Encoded, packed []byte) error {
	got, stats, err := p.codec.Decode(enc.Frame, len(packed), p.layout.Stride())
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrRoundTripMismatch, err)
	}
	enc.Stats.DecompressDuration = stats.DecompressDuration

	return eval.VerifyBytes(packed, got)
}

// Decode rebuilds float records from enc. Records come back in their original
// order unless order restoration is disabled.
func (p *Pipeline) Decode(enc *Encoded) ([]byte, error) {
	start := time.Now()
	out, err := p.decode(enc, p.restoreOrder)
	p.metrics.observe("decode", start, err)
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"action":  "splatpack_decode",
		"records": enc.Count,
		"codec":   p.codec.Name(),
		"took":    time.Since(start),
	}).Debug("decoded records")

	return out, nil
}

func (p *Pipeline) decode(enc *Encoded, restore bool) ([]byte, error) {
	if enc == nil {
		return nil, fmt.Errorf("%w: nil encoding", errs.ErrCorruptFrame)
	}
	if enc.Count < 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidRecordCount, enc.Count)
	}
	if enc.Permutation != nil && enc.Permutation.Len() != enc.Count {
		return nil, fmt.Errorf("%w: permutation has %d entries for %d records",
			errs.ErrInvalidPermutation, enc.Permutation.Len(), enc.Count)
	}

	layout := enc.Layout
	if layout.Stride() == 0 {
		layout = p.layout
	}

	packed, _, err := p.codec.Decode(enc.Frame, enc.Count*layout.Stride(), layout.Stride())
	if err != nil {
		return nil, fmt.Errorf("unframe: %w", err)
	}

	q, err := quant.NewQuantizer(enc.Ranges, quant.WithLayout(layout))
	if err != nil {
		return nil, err
	}
	records, err := q.Unpack(packed)
	if err != nil {
		return nil, fmt.Errorf("dequantize: %w", err)
	}
	if err := remap.Revert(records); err != nil {
		return nil, fmt.Errorf("revert remap: %w", err)
	}

	if restore && enc.Permutation != nil {
		records, err = enc.Permutation.Restore(records, splat.RecordStride)
		if err != nil {
			return nil, fmt.Errorf("restore order: %w", err)
		}
	}

	return records, nil
}
