package model

// Action is a canonical admin menu action. Inbound label text (in whatever
// locale the admin uses) is resolved to an Action by the translation layer;
// the workflow engine only ever routes on these identifiers.
type Action string

const (
	ActionNone Action = ""

	ActionMenuBackup    Action = "menu_backup"
	ActionMenuBroadcast Action = "menu_broadcast"
	ActionMenuPlans     Action = "menu_plans"
	ActionMenuClose     Action = "menu_close"

	ActionBackupCreate  Action = "backup_create"
	ActionBackupRestore Action = "backup_restore"

	ActionAudienceActive  Action = "audience_active"
	ActionAudienceExpired Action = "audience_expired"
	ActionAudienceTest    Action = "audience_test"
	ActionAudienceAll     Action = "audience_all"

	ActionPlansList Action = "plans_list"
	ActionPlansAdd  Action = "plans_add"
	ActionPlansEdit Action = "plans_edit"

	ActionBack   Action = "back"
	ActionCancel Action = "cancel"
)

// AudienceFor maps an audience-choice action onto its audience.
func AudienceFor(a Action) (Audience, bool) {
	switch a {
	case ActionAudienceActive:
		return AudienceActive, true
	case ActionAudienceExpired:
		return AudienceExpired, true
	case ActionAudienceTest:
		return AudienceTest, true
	case ActionAudienceAll:
		return AudienceAll, true
	}
	return "", false
}
