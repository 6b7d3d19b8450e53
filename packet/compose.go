package packet

// This file holds thin composition helpers over a caller-owned byte
// buffer: they place fields and leave checksum computation to the
// caller, mirroring the teacher's Marshal/Unmarshal split rather than
// introducing a buffer abstraction of our own (spec calls the buffer
// type an external collaborator).

// PushVLAN inserts a 4-byte 802.1Q tag between the 12-byte
// Src+Dst prefix and the ethertype of an untagged Ethernet frame,
// returning the new frame. frame must be a full untagged EthernetII
// frame (14-byte header followed by payload).
func PushVLAN(frame []byte, tci VLANTCI, tpid uint16) []byte {
	if len(frame) < 14 {
		return frame
	}
	out := make([]byte, 0, len(frame)+4)
	out = append(out, frame[0:12]...)
	vh := VLANHeader{TPID: tpid, TCI: tci}
	vb, _ := vh.MarshalBinary()
	out = append(out, vb...)
	out = append(out, frame[12:]...)
	return out
}

// PopVLAN removes a 4-byte 802.1Q tag from a tagged Ethernet frame,
// returning the untagged frame and the removed TCI. ok is false if
// frame is too short to contain a VLAN tag.
func PopVLAN(frame []byte) (out []byte, tci VLANTCI, ok bool) {
	if len(frame) < 18 {
		return frame, 0, false
	}
	var vh VLANHeader
	if err := vh.UnmarshalBinary(frame[12:16]); err != nil {
		return frame, 0, false
	}
	out = make([]byte, 0, len(frame)-4)
	out = append(out, frame[0:12]...)
	out = append(out, frame[16:]...)
	return out, vh.TCI, true
}

// PushMPLS prepends an MPLS label stack entry after the Ethernet
// header (at offset 12, replacing/preceding the ethertype), setting
// the new ethertype to ethType and clearing BoS on the new top label
// if the frame already carried one.
func PushMPLS(frame []byte, lse MPLSLabelStackEntry, ethType uint16) []byte {
	if len(frame) < 14 {
		return frame
	}
	if prev := uint16(frame[12])<<8 | uint16(frame[13]); prev == 0x8847 || prev == 0x8848 {
		lse &^= 0x100
	}
	out := make([]byte, 0, len(frame)+4)
	out = append(out, frame[0:12]...)
	var et [2]byte
	et[0], et[1] = byte(ethType>>8), byte(ethType)
	out = append(out, et[:]...)
	lb, _ := lse.MarshalBinary()
	out = append(out, lb...)
	out = append(out, frame[14:]...)
	return out
}

// PopMPLS removes the top MPLS label stack entry, restoring ethType as
// the frame's ethertype.
func PopMPLS(frame []byte, ethType uint16) ([]byte, MPLSLabelStackEntry, bool) {
	if len(frame) < 18 {
		return frame, 0, false
	}
	var lse MPLSLabelStackEntry
	if err := lse.UnmarshalBinary(frame[14:18]); err != nil {
		return frame, 0, false
	}
	out := make([]byte, 0, len(frame)-4)
	out = append(out, frame[0:12]...)
	var et [2]byte
	et[0], et[1] = byte(ethType>>8), byte(ethType)
	out = append(out, et[:]...)
	out = append(out, frame[18:]...)
	return out, lse, true
}

// RewriteNDTarget overwrites the target address of a Neighbor
// Discovery message body in place (offset 4, 16 bytes).
func RewriteNDTarget(ndBody []byte, target [16]byte) bool {
	if len(ndBody) < 20 {
		return false
	}
	copy(ndBody[4:20], target[:])
	return true
}
