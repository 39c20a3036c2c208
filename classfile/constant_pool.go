package classfile

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }

type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }

type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }

type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }

type ConstantStringInfo struct {
	StringIndex uint16
}

func (c *ConstantStringInfo) Tag() ConstantTag { return ConstantString }

// ConstantRefInfo covers field, method and interface method references. The
// symbol model never follows them, so they share one shape.
type ConstantRefInfo struct {
	RefTag           ConstantTag
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantRefInfo) Tag() ConstantTag { return c.RefTag }

type ConstantNameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstantNameAndTypeInfo) Tag() ConstantTag { return ConstantNameAndType }

type ConstantMethodHandleInfo struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

func (c *ConstantMethodHandleInfo) Tag() ConstantTag { return ConstantMethodHandle }

type ConstantMethodTypeInfo struct {
	DescriptorIndex uint16
}

func (c *ConstantMethodTypeInfo) Tag() ConstantTag { return ConstantMethodType }

// ConstantDynamicInfo covers both Dynamic and InvokeDynamic entries.
type ConstantDynamicInfo struct {
	DynamicTag               ConstantTag
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantDynamicInfo) Tag() ConstantTag { return c.DynamicTag }

// ConstantNamedInfo covers Module and Package entries.
type ConstantNamedInfo struct {
	NamedTag  ConstantTag
	NameIndex uint16
}

func (c *ConstantNamedInfo) Tag() ConstantTag { return c.NamedTag }

// ConstantPool is indexed from 1 like in the class file; index 0 and the
// slot after a long or double are nil.
type ConstantPool []ConstantPoolEntry

func (cp ConstantPool) entry(index uint16) ConstantPoolEntry {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return cp[index-1]
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if e, ok := cp.entry(index).(*ConstantUtf8Info); ok {
		return e.Value
	}
	return ""
}

func (cp ConstantPool) GetClassName(index uint16) string {
	if e, ok := cp.entry(index).(*ConstantClassInfo); ok {
		return cp.GetUtf8(e.NameIndex)
	}
	return ""
}

// GetConstant returns the Go value of a loadable constant: int32, int64,
// float32, float64 or string. ok is false for other entries.
func (cp ConstantPool) GetConstant(index uint16) (value any, ok bool) {
	switch e := cp.entry(index).(type) {
	case *ConstantIntegerInfo:
		return e.Value, true
	case *ConstantLongInfo:
		return e.Value, true
	case *ConstantFloatInfo:
		return e.Value, true
	case *ConstantDoubleInfo:
		return e.Value, true
	case *ConstantStringInfo:
		return cp.GetUtf8(e.StringIndex), true
	case *ConstantUtf8Info:
		return e.Value, true
	}
	return nil, false
}
