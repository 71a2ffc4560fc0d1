// Copyright (c) 2024 Neomantra Corp
//
// Adapted from DataBento's DBN:
//   https://github.com/databento/dbn/blob/main/rust/dbn/src/enums.rs
//

package dbn

// Side is the side of a book/trade event.
type Side uint8

const (
	// Side_Ask is a sell order or sell aggressor in a trade.
	Side_Ask Side = 'A'
	// Side_Bid is a buy order or a buy aggressor in a trade.
	Side_Bid Side = 'B'
	// Side_None means no side was specified.
	Side_None Side = 'N'
)

// Action is the MBO event action.
type Action uint8

const (
	Action_Modify Action = 'M'
	Action_Trade  Action = 'T'
	Action_Fill   Action = 'F'
	Action_Cancel Action = 'C'
	Action_Add    Action = 'A'
	Action_Clear  Action = 'R'
	Action_None   Action = 'N'
)

// InstrumentClass classifies an instrument definition.
type InstrumentClass uint8

const (
	InstrumentClass_Bond         InstrumentClass = 'B'
	InstrumentClass_Call         InstrumentClass = 'C'
	InstrumentClass_Future       InstrumentClass = 'F'
	InstrumentClass_Stock        InstrumentClass = 'K'
	InstrumentClass_MixedSpread  InstrumentClass = 'M'
	InstrumentClass_Put          InstrumentClass = 'P'
	InstrumentClass_FutureSpread InstrumentClass = 'S'
	InstrumentClass_OptionSpread InstrumentClass = 'T'
	InstrumentClass_FxSpot       InstrumentClass = 'X'
)

// MatchAlgorithm is the venue matching algorithm for an instrument.
type MatchAlgorithm uint8

const (
	MatchAlgorithm_Fifo                MatchAlgorithm = 'F'
	MatchAlgorithm_Configurable        MatchAlgorithm = 'K'
	MatchAlgorithm_ProRata             MatchAlgorithm = 'C'
	MatchAlgorithm_FifoLmm             MatchAlgorithm = 'T'
	MatchAlgorithm_ThresholdProRata    MatchAlgorithm = 'O'
	MatchAlgorithm_FifoTopLmm          MatchAlgorithm = 'S'
	MatchAlgorithm_ThresholdProRataLmm MatchAlgorithm = 'Q'
	// MatchAlgorithm_EurodollarFutures is used only for Eurodollar futures on CME.
	MatchAlgorithm_EurodollarFutures MatchAlgorithm = 'Y'
)

// UserDefinedInstrument flags a synthetic, user-constructed instrument.
type UserDefinedInstrument uint8

const (
	UserDefinedInstrument_No  UserDefinedInstrument = 'N'
	UserDefinedInstrument_Yes UserDefinedInstrument = 'Y'
)

// SType is a symbology type, on either the input or output side of a query.
type SType uint8

const (
	SType_InstrumentId SType = 0
	SType_RawSymbol    SType = 1
	// SType_Smart is deprecated: a set of Databento-specific symbologies for
	// referring to groups of symbols.
	SType_Smart      SType = 2
	SType_Continuous SType = 3
	SType_Parent     SType = 4
	SType_Nasdaq     SType = 5
	SType_Cms        SType = 6
	// NullSType is the metadata sentinel meaning "unspecified".
	NullSType SType = 0xFF
)

// RType tags the concrete record variant carried after the 16-byte header.
type RType uint8

const (
	RType_Mbp0            RType = 0x00 // Trades schema (market-by-price, depth 0).
	RType_Mbp1            RType = 0x01 // Depth-1 MBP, also used for Tbbo.
	RType_Mbp10           RType = 0x0A // Depth-10 MBP.
	RType_OhlcvDeprecated RType = 0x11 // Deprecated in 0.4.0.
	RType_Ohlcv1S         RType = 0x20
	RType_Ohlcv1M         RType = 0x21
	RType_Ohlcv1H         RType = 0x22
	RType_Ohlcv1D         RType = 0x23
	RType_OhlcvEod        RType = 0x24
	RType_Status          RType = 0x12
	RType_InstrumentDef   RType = 0x13
	RType_Imbalance       RType = 0x14
	RType_Error           RType = 0x15
	RType_SymbolMapping   RType = 0x16
	RType_System          RType = 0x17
	RType_Statistics      RType = 0x18
	RType_Mbo             RType = 0xA0
	RType_Cmbp1           RType = 0xB1 // Consolidated depth-1 MBP.
	RType_Cbbo1S          RType = 0xC0 // Consolidated BBO, 1-second bucket.
	RType_Cbbo1M          RType = 0xC1 // Consolidated BBO, 1-minute bucket.
	RType_Tcbbo           RType = 0xC2 // Consolidated BBO, trade-bucketed.
	RType_Bbo1S           RType = 0xC3 // BBO, 1-second bucket.
	RType_Bbo1M           RType = 0xC4 // BBO, 1-minute bucket.
	RType_Unknown         RType = 0xFF // Golang-only: unknown or invalid record type.
)

// IsCandle reports whether the rtype is one of the OHLCV bar cadences.
func (rtype RType) IsCandle() bool {
	switch rtype {
	case RType_Ohlcv1S, RType_Ohlcv1M, RType_Ohlcv1H, RType_Ohlcv1D, RType_OhlcvEod, RType_OhlcvDeprecated:
		return true
	default:
		return false
	}
}

// IsCompatibleWith reports whether a decoded rtype may satisfy a request for
// rtype2, allowing any candle cadence to satisfy a request for another candle
// cadence, matching how the Databento client libraries treat OHLCV schemas.
func (rtype RType) IsCompatibleWith(rtype2 RType) bool {
	if rtype == rtype2 {
		return true
	}
	return rtype.IsCandle() && rtype2.IsCandle()
}

// Schema is the logical record family queried from a dataset.
type Schema uint16

const (
	Schema_Mbo        Schema = 0
	Schema_Mbp1       Schema = 1
	Schema_Mbp10      Schema = 2
	Schema_Tbbo       Schema = 3
	Schema_Trades     Schema = 4
	Schema_Ohlcv1S    Schema = 5
	Schema_Ohlcv1M    Schema = 6
	Schema_Ohlcv1H    Schema = 7
	Schema_Ohlcv1D    Schema = 8
	Schema_Definition Schema = 9
	Schema_Statistics Schema = 10
	Schema_Status     Schema = 11
	Schema_Imbalance  Schema = 12
	Schema_OhlcvEod   Schema = 13
	Schema_Cmbp1      Schema = 14
	Schema_Cbbo1S     Schema = 15
	Schema_Cbbo1M     Schema = 16
	Schema_Tcbbo      Schema = 17
	Schema_Bbo1S      Schema = 18
	Schema_Bbo1M      Schema = 19
	// NullSchema indicates a potential mix of schemas and record types, which
	// is always the case for live data and metadata that covers more than
	// one schema.
	NullSchema Schema = 0xFFFF
)

// SchemaForRType returns the schema a record's rtype belongs to, and false for
// rtypes that aren't tied to any one schema (Error, System, SymbolMapping).
func SchemaForRType(rtype RType) (Schema, bool) {
	switch rtype {
	case RType_Mbo:
		return Schema_Mbo, true
	case RType_Mbp1:
		return Schema_Mbp1, true
	case RType_Mbp10:
		return Schema_Mbp10, true
	case RType_Cmbp1:
		return Schema_Cmbp1, true
	case RType_Mbp0:
		return Schema_Trades, true
	case RType_Ohlcv1S:
		return Schema_Ohlcv1S, true
	case RType_Ohlcv1M:
		return Schema_Ohlcv1M, true
	case RType_Ohlcv1H:
		return Schema_Ohlcv1H, true
	case RType_Ohlcv1D:
		return Schema_Ohlcv1D, true
	case RType_OhlcvEod:
		return Schema_OhlcvEod, true
	case RType_InstrumentDef:
		return Schema_Definition, true
	case RType_Statistics:
		return Schema_Statistics, true
	case RType_Status:
		return Schema_Status, true
	case RType_Imbalance:
		return Schema_Imbalance, true
	case RType_Cbbo1S:
		return Schema_Cbbo1S, true
	case RType_Cbbo1M:
		return Schema_Cbbo1M, true
	case RType_Tcbbo:
		return Schema_Tcbbo, true
	case RType_Bbo1S:
		return Schema_Bbo1S, true
	case RType_Bbo1M:
		return Schema_Bbo1M, true
	default:
		return 0, false
	}
}

// Encoding is an output text/binary encoding format.
type Encoding uint8

const (
	Encoding_Dbn  Encoding = 0
	Encoding_Csv  Encoding = 1
	Encoding_Json Encoding = 2
)

// Compression is a compression format, or none.
type Compression uint8

const (
	Compression_None Compression = 0
	Compression_ZStd Compression = 1
)

// RFlag bit values for the record header flags field.
const (
	// RFlag_LAST marks the last message in the packet from the venue for a
	// given instrument_id.
	RFlag_LAST uint8 = 1 << 7
	// RFlag_TOB marks a top-of-book message, not an individual order.
	RFlag_TOB uint8 = 1 << 6
	// RFlag_SNAPSHOT marks a message sourced from a replay, such as a
	// snapshot server.
	RFlag_SNAPSHOT uint8 = 1 << 5
	// RFlag_MBP marks an aggregated price-level message, not an individual
	// order.
	RFlag_MBP uint8 = 1 << 4
	// RFlag_BAD_TS_RECV marks a ts_recv value as inaccurate due to clock
	// issues or packet reordering.
	RFlag_BAD_TS_RECV uint8 = 1 << 3
	// RFlag_MAYBE_BAD_BOOK marks an unrecoverable gap detected in the
	// channel.
	RFlag_MAYBE_BAD_BOOK uint8 = 1 << 2
)

// SecurityUpdateAction is the kind of change an InstrumentDef record
// describes.
type SecurityUpdateAction uint8

const (
	SecurityUpdateAction_Add    SecurityUpdateAction = 'A'
	SecurityUpdateAction_Modify SecurityUpdateAction = 'M'
	SecurityUpdateAction_Delete SecurityUpdateAction = 'D'
	// SecurityUpdateAction_Invalid is deprecated but still present in legacy
	// v1 files.
	SecurityUpdateAction_Invalid SecurityUpdateAction = '~'
)

// StatType is the kind of statistic carried by a StatMsg.
type StatType uint16

const (
	StatType_OpeningPrice            StatType = 1
	StatType_IndicativeOpeningPrice  StatType = 2
	StatType_SettlementPrice         StatType = 3
	StatType_TradingSessionLowPrice  StatType = 4
	StatType_TradingSessionHighPrice StatType = 5
	StatType_ClearedVolume           StatType = 6
	StatType_LowestOffer             StatType = 7
	StatType_HighestBid              StatType = 8
	StatType_OpenInterest            StatType = 9
	StatType_FixingPrice             StatType = 10
	StatType_ClosePrice              StatType = 11
	StatType_NetChange               StatType = 12
	StatType_Vwap                    StatType = 13
)

// StatUpdateAction distinguishes a new statistic from a retraction.
type StatUpdateAction uint8

const (
	StatUpdateAction_New    StatUpdateAction = 1
	StatUpdateAction_Delete StatUpdateAction = 2
)

// StatusAction is the primary action of a StatusMsg.
type StatusAction uint16

const (
	StatusAction_None                   StatusAction = 0
	StatusAction_PreOpen                StatusAction = 1
	StatusAction_PreCross                StatusAction = 2
	StatusAction_Quoting                 StatusAction = 3
	StatusAction_Cross                   StatusAction = 4
	StatusAction_Rotation                StatusAction = 5
	StatusAction_NewPriceIndication      StatusAction = 6
	StatusAction_Trading                 StatusAction = 7
	StatusAction_Halt                    StatusAction = 8
	StatusAction_Pause                   StatusAction = 9
	StatusAction_Suspend                 StatusAction = 10
	StatusAction_PreClose                StatusAction = 11
	StatusAction_Close                   StatusAction = 12
	StatusAction_PostClose               StatusAction = 13
	StatusAction_SsrChange                StatusAction = 14
	StatusAction_NotAvailableForTrading   StatusAction = 15
)

// StatusReason explains the cause of a halt or other status change.
type StatusReason uint16

const (
	StatusReason_None                           StatusReason = 0
	StatusReason_Scheduled                       StatusReason = 1
	StatusReason_SurveillanceIntervention        StatusReason = 2
	StatusReason_MarketEvent                     StatusReason = 3
	StatusReason_InstrumentActivation            StatusReason = 4
	StatusReason_InstrumentExpiration             StatusReason = 5
	StatusReason_RecoveryInProcess                StatusReason = 6
	StatusReason_Regulatory                       StatusReason = 10
	StatusReason_Administrative                   StatusReason = 11
	StatusReason_NonCompliance                    StatusReason = 12
	StatusReason_FilingsNotCurrent                StatusReason = 13
	StatusReason_SecTradingSuspension              StatusReason = 14
	StatusReason_NewIssue                          StatusReason = 15
	StatusReason_IssueAvailable                    StatusReason = 16
	StatusReason_IssuesReviewed                    StatusReason = 17
	StatusReason_FilingReqsSatisfied                StatusReason = 18
	StatusReason_NewsPending                        StatusReason = 30
	StatusReason_NewsReleased                       StatusReason = 31
	StatusReason_NewsAndResumptionTimes              StatusReason = 32
	StatusReason_NewsNotForthcoming                  StatusReason = 33
	StatusReason_OrderImbalance                      StatusReason = 40
	StatusReason_LuldPause                           StatusReason = 50
	StatusReason_Operational                         StatusReason = 60
	StatusReason_AdditionalInformationRequested      StatusReason = 70
	StatusReason_MergerEffective                      StatusReason = 80
	StatusReason_Etf                                  StatusReason = 90
	StatusReason_CorporateAction                      StatusReason = 100
	StatusReason_NewSecurityOffering                   StatusReason = 110
	StatusReason_MarketWideHaltLevel1                  StatusReason = 120
	StatusReason_MarketWideHaltLevel2                  StatusReason = 121
	StatusReason_MarketWideHaltLevel3                  StatusReason = 122
	StatusReason_MarketWideHaltCarryover                StatusReason = 123
	StatusReason_MarketWideHaltResumption               StatusReason = 124
	StatusReason_QuotationNotAvailable                  StatusReason = 130
)

// TradingEvent is further detail accompanying a status update.
type TradingEvent uint16

const (
	TradingEvent_None                 TradingEvent = 0
	TradingEvent_NoCancel              TradingEvent = 1
	TradingEvent_ChangeTradingSession  TradingEvent = 2
	TradingEvent_ImpliedMatchingOn     TradingEvent = 3
	TradingEvent_ImpliedMatchingOff    TradingEvent = 4
)

// TriState is Option<bool> with a human-readable wire representation.
type TriState uint8

const (
	TriState_NotAvailable TriState = '~'
	TriState_No           TriState = 'N'
	TriState_Yes          TriState = 'Y'
)

// VersionUpgradePolicy controls how records from older DBN versions are
// presented to callers of the decoder.
type VersionUpgradePolicy uint8

const (
	// AsIs decodes data from a previous version without conversion: zero
	// copy, but the caller must handle every version it may encounter.
	AsIs VersionUpgradePolicy = 0
	// UpgradeToV2 upgrades v1 records to the v2 layout.
	UpgradeToV2 VersionUpgradePolicy = 1
	// UpgradeToV3 upgrades v1 and v2 records to the v3 layout.
	UpgradeToV3 VersionUpgradePolicy = 2
)

// ValidateCompatibility rejects an upgrade policy paired with an input
// version newer than the policy's own target, which it could never upgrade.
func (p VersionUpgradePolicy) ValidateCompatibility(inputVersion uint8) error {
	switch p {
	case AsIs:
		return nil
	case UpgradeToV2:
		if inputVersion > DbnVersion2 {
			return newDecodeErrorf("upgrade policy UpgradeToV2 is incompatible with input version %d", inputVersion)
		}
		return nil
	case UpgradeToV3:
		if inputVersion > DbnVersion3 {
			return newDecodeErrorf("upgrade policy UpgradeToV3 is incompatible with input version %d", inputVersion)
		}
		return nil
	default:
		return newDecodeErrorf("unknown upgrade policy %d", uint8(p))
	}
}

// IsUpgradeSituation reports whether decoding the given input version under
// this policy could require widening any record.
func (p VersionUpgradePolicy) IsUpgradeSituation(inputVersion uint8) bool {
	switch p {
	case UpgradeToV2:
		return inputVersion < DbnVersion2
	case UpgradeToV3:
		return inputVersion < DbnVersion3
	default:
		return false
	}
}

// TargetVersion returns the DBN version records should be presented at for
// a given input version under this policy: the input version itself under
// AsIs, or the policy's own version ceiling, whichever is higher (a policy
// never downgrades).
func (p VersionUpgradePolicy) TargetVersion(inputVersion uint8) uint8 {
	switch p {
	case UpgradeToV2:
		if inputVersion > DbnVersion2 {
			return inputVersion
		}
		return DbnVersion2
	case UpgradeToV3:
		if inputVersion > DbnVersion3 {
			return inputVersion
		}
		return DbnVersion3
	default:
		return inputVersion
	}
}

// DBN format versions supported by this library.
const (
	DbnVersion1 uint8 = 1
	DbnVersion2 uint8 = 2
	DbnVersion3 uint8 = 3

	// DbnVersionLatest is the newest version this library can produce and
	// the highest version it will accept on decode.
	DbnVersionLatest = DbnVersion3
)

// NoSchemaBehavior controls how the schema splitter handles records whose
// rtype isn't tied to one schema (Error, System, SymbolMapping).
type NoSchemaBehavior uint8

const (
	NoSchemaBehavior_Skip      NoSchemaBehavior = 0
	NoSchemaBehavior_Error     NoSchemaBehavior = 1
	NoSchemaBehavior_Broadcast NoSchemaBehavior = 2
)

// SplitDuration is the bucket granularity for the time splitter.
type SplitDuration uint8

const (
	SplitDuration_Day        SplitDuration = 0
	SplitDuration_WeekSunday SplitDuration = 1
	SplitDuration_Month      SplitDuration = 2
)
