package domain

// AuditAction represents the kind of lifecycle transition recorded in the audit log.
type AuditAction string

const (
	AuditActionInvoke     AuditAction = "INVOKE"
	AuditActionBanish     AuditAction = "BANISH"
	AuditActionExtend     AuditAction = "EXTEND"
	AuditActionWishlist   AuditAction = "WISHLIST"
	AuditActionUnwishlist AuditAction = "UNWISHLIST"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionInvoke, AuditActionBanish, AuditActionExtend,
		AuditActionWishlist, AuditActionUnwishlist:
		return true
	}
	return false
}

// BanishReason tells why an invocation ended.
type BanishReason string

const (
	BanishReasonManual  BanishReason = "MANUAL"
	BanishReasonExpired BanishReason = "EXPIRED"
)

func (r BanishReason) String() string { return string(r) }

func (r BanishReason) IsValid() bool {
	switch r {
	case BanishReasonManual, BanishReasonExpired:
		return true
	}
	return false
}

// View names a presentation path that must be re-derived after a change.
type View string

const (
	ViewRoster       View = "roster"
	ViewActiveRitual View = "active-ritual"
)

func (v View) String() string { return string(v) }

// AllViews lists every view path invalidated by a lifecycle transition.
func AllViews() []View {
	return []View{ViewRoster, ViewActiveRitual}
}
