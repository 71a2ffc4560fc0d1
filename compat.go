// Copyright (c) 2024 Neomantra Corp
//
// compat.go implements the version-upgrade table that lets a Decoder built
// with UpgradeToV2/UpgradeToV3 hand callers widened records from older DBN
// input, without the caller ever branching on the input version themselves.
// Only InstrumentDefMsg, StatMsg, and the three gateway messages
// (Error/System/SymbolMapping) actually change shape across versions; every
// other rtype is upgraded by copying the bytes unchanged.

package dbn

// isUpgradableRType reports whether rtype is one of the three families whose
// wire shape actually changes across DBN versions. Every other rtype is
// copied byte-for-byte regardless of policy.
func isUpgradableRType(rtype RType) bool {
	switch rtype {
	case RType_InstrumentDef, RType_Statistics, RType_Error, RType_System, RType_SymbolMapping:
		return true
	default:
		return false
	}
}

// upgradeRecord rewrites the record at raw (whose rtype is rtype, encoded at
// inputVersion) into dst at targetVersion, returning the number of bytes
// written to dst. Byte-identical rtypes are copied verbatim; the three
// version-sensitive families are decoded and re-encoded through their typed
// Go structs.
func upgradeRecord(dst *growBuffer, raw []byte, rtype RType, inputVersion, targetVersion uint8, cstrLen uint16) (int, error) {
	if inputVersion >= targetVersion {
		dst.ensureSpace(len(raw))
		n := copy(dst.space(), raw)
		dst.fill(n)
		return n, nil
	}

	switch rtype {
	case RType_InstrumentDef:
		return upgradeInstrumentDef(dst, raw, inputVersion, targetVersion, cstrLen)
	case RType_Statistics:
		return upgradeStat(dst, raw, inputVersion, targetVersion)
	case RType_Error:
		return upgradeError(dst, raw, inputVersion, targetVersion)
	case RType_System:
		return upgradeSystem(dst, raw, inputVersion, targetVersion)
	case RType_SymbolMapping:
		return upgradeSymbolMapping(dst, raw, inputVersion, targetVersion, cstrLen)
	default:
		// Every other rtype (Mbo, Mbp1, Mbp10, Cmbp1, Trade, Bbo, Cbbo,
		// Ohlcv*, Imbalance, Status) is byte-identical across versions.
		dst.ensureSpace(len(raw))
		n := copy(dst.space(), raw)
		dst.fill(n)
		return n, nil
	}
}

func appendRecord(dst *growBuffer, hdr *RHeader, body []byte) int {
	total := RHeader_Size + len(body)
	dst.ensureSpace(total)
	hdr.Length = uint8(total / 4)
	PutRHeader_Raw(dst.space()[:RHeader_Size], hdr)
	copy(dst.space()[RHeader_Size:total], body)
	dst.fill(total)
	return total
}

// tsOutTrailer returns the bytes of raw beyond its fixed record size, which
// is either empty or the optional trailing send-timestamp added when the
// enclosing stream was opened with ts_out. Any such trailer must
// follow straight through a version upgrade unchanged.
func tsOutTrailer(raw []byte, fixedSize int) []byte {
	if len(raw) <= fixedSize {
		return nil
	}
	return raw[fixedSize:]
}

func upgradeStat(dst *growBuffer, raw []byte, inputVersion, targetVersion uint8) (int, error) {
	var v1 StatMsg
	if err := v1.Fill_Raw(raw); err != nil {
		return 0, err
	}
	trailer := tsOutTrailer(raw, StatMsg_Size)
	if targetVersion < DbnVersion3 {
		// v1 == v2 shape; nothing to widen yet.
		return appendRecordCopy(dst, raw)
	}
	v3 := UpgradeStatMsgToV3(&v1)
	body := make([]byte, StatMsgV3_Size-RHeader_Size+len(trailer))
	putStatV3Body(body, v3)
	copy(body[StatMsgV3_Size-RHeader_Size:], trailer)
	return appendRecord(dst, &v3.Header, body), nil
}

func putStatV3Body(body []byte, v3 *StatMsgV3) {
	putUint64(body[0:8], v3.TsRecv)
	putUint64(body[8:16], v3.TsRef)
	putInt64(body[16:24], v3.Price)
	putInt64(body[24:32], v3.Quantity)
	putUint32(body[32:36], v3.Sequence)
	putInt32(body[36:40], v3.TsInDelta)
	putUint16(body[40:42], uint16(v3.StatType))
	putUint16(body[42:44], v3.ChannelID)
	body[44] = uint8(v3.UpdateAction)
	body[45] = v3.StatFlags
}

func upgradeError(dst *growBuffer, raw []byte, inputVersion, targetVersion uint8) (int, error) {
	var v1 ErrorMsgV1
	if err := v1.Fill_Raw(raw); err != nil {
		return 0, err
	}
	trailer := tsOutTrailer(raw, ErrorMsgV1_Size)
	v2 := UpgradeErrorMsgToV2(&v1)
	body := make([]byte, ErrorMsgV2_Size-RHeader_Size+len(trailer))
	copy(body, []byte(v2.Err))
	body[302] = v2.Code
	body[303] = v2.IsLast
	copy(body[ErrorMsgV2_Size-RHeader_Size:], trailer)
	return appendRecord(dst, &v2.Header, body), nil
}

func upgradeSystem(dst *growBuffer, raw []byte, inputVersion, targetVersion uint8) (int, error) {
	var v1 SystemMsgV1
	if err := v1.Fill_Raw(raw); err != nil {
		return 0, err
	}
	trailer := tsOutTrailer(raw, SystemMsgV1_Size)
	v2 := UpgradeSystemMsgToV2(&v1)
	body := make([]byte, SystemMsgV2_Size-RHeader_Size+len(trailer))
	copy(body, []byte(v2.Msg))
	body[303] = v2.Code
	copy(body[SystemMsgV2_Size-RHeader_Size:], trailer)
	return appendRecord(dst, &v2.Header, body), nil
}

func upgradeSymbolMapping(dst *growBuffer, raw []byte, inputVersion, targetVersion uint8, cstrLen uint16) (int, error) {
	var v1 SymbolMappingMsgV1
	if err := v1.Fill_Raw(raw); err != nil {
		return 0, err
	}
	trailer := tsOutTrailer(raw, SymbolMappingMsgV1_Size)
	v2 := UpgradeSymbolMappingMsgToV2(&v1)
	outCstrLen := cstrLen
	if outCstrLen == 0 {
		outCstrLen = symbolCstrLenV2Default
	}
	fixedBodySize := int((&SymbolMappingMsgV2{}).RSize(outCstrLen))
	body := make([]byte, fixedBodySize+len(trailer))
	body[0] = uint8(v2.StypeIn)
	copy(body[1:1+outCstrLen], []byte(v2.StypeInSymbol))
	pos := 1 + int(outCstrLen)
	body[pos] = uint8(v2.StypeOut)
	copy(body[pos+1:pos+1+int(outCstrLen)], []byte(v2.StypeOutSymbol))
	pos = pos + 1 + int(outCstrLen)
	putUint64(body[pos:pos+8], v2.StartTs)
	putUint64(body[pos+8:pos+16], v2.EndTs)
	copy(body[fixedBodySize:], trailer)
	return appendRecord(dst, &v2.Header, body), nil
}

func upgradeInstrumentDef(dst *growBuffer, raw []byte, inputVersion, targetVersion uint8, cstrLen uint16) (int, error) {
	var v1 InstrumentDefMsgV1
	outCstrLen := cstrLen
	if outCstrLen == 0 {
		outCstrLen = symbolCstrLenV2Default
	}
	inCstrLen, hasStrikeCurrency := uint16(symbolCstrLenV1), false
	if inputVersion >= DbnVersion2 {
		inCstrLen, hasStrikeCurrency = outCstrLen, true
	}
	if _, err := fillInstrumentDefCommon(raw, &v1.Header, &v1.instrumentDefCore, inCstrLen, hasStrikeCurrency); err != nil {
		return 0, err
	}
	trailer := tsOutTrailer(raw, instrumentDefFixedSize(inCstrLen, hasStrikeCurrency))
	if targetVersion == DbnVersion2 {
		v2 := &InstrumentDefMsgV2{Header: v1.Header, instrumentDefCore: v1.instrumentDefCore}
		return appendInstrumentDefV2(dst, v2, outCstrLen, trailer), nil
	}
	v3 := &InstrumentDefMsgV3{Header: v1.Header, instrumentDefCore: v1.instrumentDefCore}
	return appendInstrumentDefV3(dst, v3, outCstrLen, trailer), nil
}

func appendRecordCopy(dst *growBuffer, raw []byte) (int, error) {
	dst.ensureSpace(len(raw))
	n := copy(dst.space(), raw)
	dst.fill(n)
	return n, nil
}

// symbolCstrLenV2Default is used when upgrading without a live Metadata
// context (e.g. fragment mode), matching the
// default SymbolCstrLen Databento's v2/v3 datasets negotiate.
const symbolCstrLenV2Default = 71

// detectVersionFromRecordLength infers the input DBN version of an
// upgradable record purely from its byte length, for fragment-mode decoding
// where no metadata preamble was seen. Ambiguous or identical sizes across
// versions never latch a version — notably StatMsg, whose v1 and v2 sizes
// are identical, so its length alone never discriminates version.
func detectVersionFromRecordLength(rtype RType, length int) (version uint8, ok bool) {
	switch rtype {
	case RType_InstrumentDef:
		switch length {
		case int(instrumentDefV1Size):
			return DbnVersion1, true
		case int(instrumentDefV2Size):
			return DbnVersion2, true
		default:
			return 0, false
		}
	case RType_Error:
		switch length {
		case ErrorMsgV1_Size:
			return DbnVersion1, true
		case ErrorMsgV2_Size:
			return DbnVersion2, true
		default:
			return 0, false
		}
	case RType_System:
		switch length {
		case SystemMsgV1_Size:
			return DbnVersion1, true
		case SystemMsgV2_Size:
			return DbnVersion2, true
		default:
			return 0, false
		}
	case RType_SymbolMapping:
		if length == SymbolMappingMsgV1_Size {
			return DbnVersion1, true
		}
		return 0, false
	case RType_Statistics:
		// v1 and v2 are identical in size; never latch a version from this
		// rtype alone.
		return 0, false
	default:
		return 0, false
	}
}

// instrumentDefV1Size/instrumentDefV2Size are the fixed wire sizes used by
// fragment-mode version detection. They are computed once from the known
// field widths rather than hardcoded, so a change to the layout above can't
// silently desync the detector.
var (
	instrumentDefV1Size = instrumentDefFixedSize(symbolCstrLenV1, false)
	instrumentDefV2Size = instrumentDefFixedSize(symbolCstrLenV2Default, true)
)

func instrumentDefFixedSize(cstrLen uint16, hasStrikeCurrency bool) int {
	const fixedNumerics = 8*14 + 4*13 + 2*4
	const fixedCstrs = 4 + 4 + 6 + 21 + 5 + 7 + 7 + 7 + 31 + 21
	const fixedFlags = 16
	size := RHeader_Size + fixedNumerics + fixedCstrs + int(cstrLen) + fixedFlags
	if hasStrikeCurrency {
		size += 4
	}
	return size
}
