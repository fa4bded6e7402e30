package protocol

import (
	"hqmgo/internal/bitio"
	"hqmgo/internal/physics"
	"hqmgo/internal/rotation"
)

// objAbsent/objPresent and objKindSkater/objKindPuck are the 1-bit
// presence and 1-bit kind tags that
// precede each of the 32 object table entries.
const (
	objAbsent  = 0
	objPresent = 1

	objKindSkater = 0
	objKindPuck   = 1
)

// EncodeObjectAbsent writes a single "no object here" bit.
func EncodeObjectAbsent(w *bitio.Writer) error {
	return w.WriteBits(1, objAbsent)
}

// EncodeSkater writes one skater's packet fields: a
// presence bit, the kind bit, quantized position, stick position,
// head/body rotation, and the body/stick orientation columns.
func EncodeSkater(w *bitio.Writer, s *physics.Skater) error {
	if err := w.WriteBits(1, objPresent); err != nil {
		return err
	}
	if err := w.WriteBits(1, objKindSkater); err != nil {
		return err
	}
	pos := s.Body.Pos
	if err := w.WritePos(PosBits, quantizePos(pos[0])); err != nil {
		return err
	}
	if err := w.WritePos(PosBits, quantizePos(pos[1])); err != nil {
		return err
	}
	if err := w.WritePos(PosBits, quantizePos(pos[2])); err != nil {
		return err
	}

	stick := s.StickPos
	for i := 0; i < 3; i++ {
		if err := w.WritePos(StickPosBits, quantizeStickOffset(stick[i], pos[i])); err != nil {
			return err
		}
	}

	if err := w.WriteBits(RotBits16, quantizeRot16(s.HeadRot)); err != nil {
		return err
	}
	if err := w.WriteBits(RotBits16, quantizeRot16(s.BodyRot)); err != nil {
		return err
	}

	c1, c2 := rotation.EncodeMatrix(SkaterRotB1, SkaterRotB2, s.Body.Rot)
	if err := w.WriteBits(SkaterRotB1, c1); err != nil {
		return err
	}
	if err := w.WriteBits(SkaterRotB2, c2); err != nil {
		return err
	}
	sc1, sc2 := rotation.EncodeMatrix(StickRotB1, StickRotB2, s.StickRot)
	if err := w.WriteBits(StickRotB1, sc1); err != nil {
		return err
	}
	return w.WriteBits(StickRotB2, sc2)
}

// EncodePuck writes one puck's packet fields: presence, kind, position,
// and orientation at the puck's wider bit widths.
func EncodePuck(w *bitio.Writer, p *physics.Puck) error {
	if err := w.WriteBits(1, objPresent); err != nil {
		return err
	}
	if err := w.WriteBits(1, objKindPuck); err != nil {
		return err
	}
	pos := p.Body.Pos
	for i := 0; i < 3; i++ {
		if err := w.WritePos(PosBits, quantizePos(pos[i])); err != nil {
			return err
		}
	}
	c1, c2 := rotation.EncodeMatrix(PuckRotB1, PuckRotB2, p.Body.Rot)
	if err := w.WriteBits(PuckRotB1, c1); err != nil {
		return err
	}
	return w.WriteBits(PuckRotB2, c2)
}

// DecodedObject is a presence-tagged, decoded object table entry.
type DecodedObject struct {
	Present bool
	IsPuck  bool

	Pos      [3]float32
	StickPos [3]float32
	HeadRot  float32
	BodyRot  float32

	OrientCol1      uint32 // raw encoded column, fed to rotation.DecodeMatrix by Rot()
	OrientCol2      uint32
	StickOrientCol1 uint32
	StickOrientCol2 uint32
}

// DecodeObject reads one object table entry.
func DecodeObject(r *bitio.Reader) (DecodedObject, error) {
	presence, err := r.ReadBits(1)
	if err != nil {
		return DecodedObject{}, err
	}
	if presence == objAbsent {
		return DecodedObject{}, nil
	}
	kind, err := r.ReadBits(1)
	if err != nil {
		return DecodedObject{}, err
	}
	obj := DecodedObject{Present: true, IsPuck: kind == objKindPuck}

	for i := 0; i < 3; i++ {
		v, err := r.ReadPos(PosBits, nil)
		if err != nil {
			return DecodedObject{}, err
		}
		obj.Pos[i] = dequantizePos(v)
	}

	if !obj.IsPuck {
		for i := 0; i < 3; i++ {
			v, err := r.ReadPos(StickPosBits, nil)
			if err != nil {
				return DecodedObject{}, err
			}
			obj.StickPos[i] = dequantizeStickOffset(v, obj.Pos[i])
		}
		hr, err := r.ReadBits(RotBits16)
		if err != nil {
			return DecodedObject{}, err
		}
		obj.HeadRot = dequantizeRot16(hr)
		br, err := r.ReadBits(RotBits16)
		if err != nil {
			return DecodedObject{}, err
		}
		obj.BodyRot = dequantizeRot16(br)

		if obj.OrientCol1, err = r.ReadBits(SkaterRotB1); err != nil {
			return DecodedObject{}, err
		}
		if obj.OrientCol2, err = r.ReadBits(SkaterRotB2); err != nil {
			return DecodedObject{}, err
		}
		if obj.StickOrientCol1, err = r.ReadBits(StickRotB1); err != nil {
			return DecodedObject{}, err
		}
		if obj.StickOrientCol2, err = r.ReadBits(StickRotB2); err != nil {
			return DecodedObject{}, err
		}
	} else {
		if obj.OrientCol1, err = r.ReadBits(PuckRotB1); err != nil {
			return DecodedObject{}, err
		}
		if obj.OrientCol2, err = r.ReadBits(PuckRotB2); err != nil {
			return DecodedObject{}, err
		}
	}
	return obj, nil
}

// Rot reconstructs the decoded orientation matrix using the rotation
// codec's widths appropriate to this object's kind.
func (o DecodedObject) Rot() rotation.Mat3 {
	if o.IsPuck {
		return rotation.DecodeMatrix(PuckRotB1, PuckRotB2, o.OrientCol1, o.OrientCol2)
	}
	return rotation.DecodeMatrix(SkaterRotB1, SkaterRotB2, o.OrientCol1, o.OrientCol2)
}

// StickRotMat reconstructs the decoded stick orientation (skaters only).
func (o DecodedObject) StickRotMat() rotation.Mat3 {
	return rotation.DecodeMatrix(StickRotB1, StickRotB2, o.StickOrientCol1, o.StickOrientCol2)
}
