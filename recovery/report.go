package recovery

import "github.com/byte271/6cy/format"

// HealthKind classifies one scanned block's condition during full recovery.
type HealthKind int

const (
	// HealthHealthy means the block decoded and verified end to end.
	HealthHealthy HealthKind = iota
	// HealthHeaderCorrupt means the header's CRC (or, per the
	// specification's discussion of bit-rot, the block's content hash)
	// failed to verify.
	HealthHeaderCorrupt
	// HealthTruncatedPayload means fewer bytes remain in the archive than
	// comp_size declares.
	HealthTruncatedPayload
	// HealthUnknownCodec means codec_uuid does not resolve in the active
	// registry, so the payload cannot be decompressed.
	HealthUnknownCodec
)

// String renders the health kind for recovery reports and logs.
func (k HealthKind) String() string {
	switch k {
	case HealthHealthy:
		return "Healthy"
	case HealthHeaderCorrupt:
		return "HeaderCorrupt"
	case HealthTruncatedPayload:
		return "TruncatedPayload"
	case HealthUnknownCodec:
		return "UnknownCodec"
	default:
		return "Unknown"
	}
}

// BlockHealth is the classification of one block found during forward scan.
type BlockHealth struct {
	Kind      HealthKind
	Offset    uint64
	BlockType format.BlockType

	// Declared/Available are set for HealthTruncatedPayload.
	Declared  uint64
	Available uint64

	// CodecUUID is set for HealthUnknownCodec.
	CodecUUID format.CodecUUID
}

// Quality rates a full-recovery pass by the fraction of scanned blocks that
// were healthy.
type Quality string

const (
	QualityFull         Quality = "full"
	QualityPartial      Quality = "partial"
	QualityHeaderOnly   Quality = "header_only"
	QualityCatastrophic Quality = "catastrophic"
)

// rateQuality implements the table from the specification: Full at >=95%
// healthy, Partial at [50%, 95%), HeaderOnly when at least one block was
// scanned but no DATA block recovered, Catastrophic below 50% healthy or
// when nothing was scanned at all.
func rateQuality(scanned, healthy, healthyData int) Quality {
	if scanned == 0 {
		return QualityCatastrophic
	}

	share := float64(healthy) / float64(scanned)

	switch {
	case share >= 0.95:
		return QualityFull
	case share >= 0.5:
		return QualityPartial
	case healthyData == 0:
		return QualityHeaderOnly
	default:
		return QualityCatastrophic
	}
}

// RecoveryReport summarizes one full-recovery pass.
type RecoveryReport struct {
	Scanned          int
	Healthy          int
	HeaderCorrupt    int
	TruncatedPayload int
	UnknownCodec     int
	Quality          Quality
	Blocks           []BlockHealth
}
