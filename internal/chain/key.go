package chain

import "fmt"

// PositionKey is the ledger's stable encoding of
// (group, instrument, maturity, type) into a single 64-bit id.
//
// Layout, most significant byte first:
//
//	[63:56] group id
//	[55:40] instrument id
//	[39:8]  maturity (block number)
//	[7:0]   position type byte
type PositionKey uint64

// EncodePositionKey packs the position identity fields into a key.
func EncodePositionKey(groupID int32, instrumentID uint16, maturity int64, typeByte byte) PositionKey {
	return PositionKey(uint64(uint8(groupID))<<56 |
		uint64(instrumentID)<<40 |
		uint64(uint32(maturity))<<8 |
		uint64(typeByte))
}

// Decode unpacks the key back into its identity fields.
func (k PositionKey) Decode() (groupID int32, instrumentID uint16, maturity int64, typeByte byte) {
	groupID = int32(uint8(k >> 56))
	instrumentID = uint16(k >> 40)
	maturity = int64(uint32(k >> 8))
	typeByte = byte(k)
	return
}

// Hex renders the key in the fixed-width form used inside entity ids.
func (k PositionKey) Hex() string {
	return fmt.Sprintf("0x%016x", uint64(k))
}
