package classfile

// MemberInfo is a field_info or method_info record; both share one layout.
type MemberInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func (m *MemberInfo) Name(cp ConstantPool) string {
	return cp.GetUtf8(m.NameIndex)
}

func (m *MemberInfo) Descriptor(cp ConstantPool) string {
	return cp.GetUtf8(m.DescriptorIndex)
}

func (m *MemberInfo) GetAttribute(cp ConstantPool, name string) *AttributeInfo {
	return findAttribute(cp, m.Attributes, name)
}

// Flags returns the access flags with the synthetic bit set when the member
// carries a Synthetic attribute, as pre-1.5 compilers emit it.
func (m *MemberInfo) Flags(cp ConstantPool) AccessFlags {
	flags := m.AccessFlags
	if m.GetAttribute(cp, AttrSynthetic) != nil {
		flags |= AccSynthetic
	}
	return flags
}

func (m *MemberInfo) Signature(cp ConstantPool) string {
	return signatureOf(cp, m.Attributes)
}

func (m *MemberInfo) IsDeprecated(cp ConstantPool) bool {
	return m.GetAttribute(cp, AttrDeprecated) != nil
}

func findAttribute(cp ConstantPool, attrs []AttributeInfo, name string) *AttributeInfo {
	for i := range attrs {
		if cp.GetUtf8(attrs[i].NameIndex) == name {
			return &attrs[i]
		}
	}
	return nil
}

func signatureOf(cp ConstantPool, attrs []AttributeInfo) string {
	attr := findAttribute(cp, attrs, AttrSignature)
	if attr == nil {
		return ""
	}
	if sig := attr.AsSignature(); sig != nil {
		return cp.GetUtf8(sig.SignatureIndex)
	}
	return ""
}
