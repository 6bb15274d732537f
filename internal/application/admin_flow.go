// Package application composes usecases into the admin conversation flows.
// AdminFlow is the workflow engine: it routes each inbound event by the
// actor's session state, drives the broadcast / restore / plan-edit state
// machines and returns outbound instructions for the transport to send.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/adapter"
	"telegram-subscription-admin/internal/domain/ports/repository"
	"telegram-subscription-admin/internal/infra/logging"
	"telegram-subscription-admin/internal/infra/metrics"
	"telegram-subscription-admin/internal/usecase"
)

// AdminCommand is the command that opens the admin menu.
const AdminCommand = "admin"

type AdminFlow struct {
	sessions  repository.SessionStore
	users     usecase.UserUseCase
	broadcast usecase.BroadcastUseCase
	plans     usecase.PlanUseCase
	backup    usecase.BackupUseCase
	tr        adapter.Translator
	log       *zerolog.Logger
}

func NewAdminFlow(
	sessions repository.SessionStore,
	users usecase.UserUseCase,
	broadcast usecase.BroadcastUseCase,
	plans usecase.PlanUseCase,
	backup usecase.BackupUseCase,
	tr adapter.Translator,
	logger *zerolog.Logger,
) *AdminFlow {
	return &AdminFlow{
		sessions:  sessions,
		users:     users,
		broadcast: broadcast,
		plans:     plans,
		backup:    backup,
		tr:        tr,
		log:       logger,
	}
}

// HandleEvent processes one inbound admin event and returns the replies.
// Errors are absorbed here: every failure becomes a user-visible message and,
// when a workflow was active, a cleared session. Only the transport decides
// how replies are rendered.
func (f *AdminFlow) HandleEvent(ctx context.Context, ev adapter.Event) []adapter.Instruction {
	ctx = logging.WithTgID(ctx, ev.ActorID)

	user, err := f.users.RegisterOrFetch(ctx, ev.ActorID, repository.UserProfile{
		Username:  ev.Profile.Username,
		FirstName: ev.Profile.FirstName,
		LastName:  ev.Profile.LastName,
	})
	lang := model.LangEN
	if user != nil {
		lang = user.Language
	}
	if err != nil {
		logging.With(ctx, f.log).Error().Err(err).Msg("failed to load user for event")
		return f.reply(ev.ActorID, lang, "unknown_action", adapter.KeyboardMain)
	}

	if ev.Kind == adapter.EventCommand && strings.EqualFold(strings.TrimSpace(ev.Text), AdminCommand) {
		f.sessions.Clear(ev.ActorID)
		return f.reply(ev.ActorID, lang, "welcome_admin", adapter.KeyboardMain)
	}

	action := model.ActionNone
	if ev.Kind == adapter.EventText {
		action, _ = f.tr.ResolveAction(ev.Text)
	}

	if sess := f.sessions.Get(ev.ActorID); sess != nil {
		return f.handleSession(ctx, ev, lang, sess, action)
	}
	return f.handleMenu(ctx, ev, lang, action)
}

// -----------------------------
// Idle-menu routing
// -----------------------------

func (f *AdminFlow) handleMenu(ctx context.Context, ev adapter.Event, lang model.Language, action model.Action) []adapter.Instruction {
	switch action {
	case model.ActionMenuBackup:
		return f.reply(ev.ActorID, lang, "backup_menu_title", adapter.KeyboardBackup)

	case model.ActionBackupCreate:
		return f.createBackup(ctx, ev.ActorID, lang)

	case model.ActionBackupRestore:
		f.sessions.Start(ev.ActorID, model.StepAwaitingFile, nil)
		metrics.IncWorkflowTransition("restore", "start")
		return f.reply(ev.ActorID, lang, "restore_send_file", adapter.KeyboardCancel)

	case model.ActionMenuBroadcast:
		f.sessions.Start(ev.ActorID, model.StepChoosingAudience, nil)
		metrics.IncWorkflowTransition("broadcast", "start")
		return f.reply(ev.ActorID, lang, "broadcast_title", adapter.KeyboardAudience)

	case model.ActionMenuPlans:
		return f.reply(ev.ActorID, lang, "plans_title", adapter.KeyboardPlans)

	case model.ActionPlansList:
		return f.listPlans(ctx, ev.ActorID, lang)

	case model.ActionPlansAdd:
		f.sessions.Start(ev.ActorID, model.StepAddingJSON, nil)
		metrics.IncWorkflowTransition("plan_add", "start")
		return f.reply(ev.ActorID, lang, "plans_add_prompt", adapter.KeyboardCancel)

	case model.ActionPlansEdit:
		f.sessions.Start(ev.ActorID, model.StepEditingID, nil)
		metrics.IncWorkflowTransition("plan_edit", "start")
		return f.reply(ev.ActorID, lang, "plans_edit_prompt_id", adapter.KeyboardCancel)

	case model.ActionBack:
		return f.reply(ev.ActorID, lang, "welcome_admin", adapter.KeyboardMain)

	case model.ActionMenuClose:
		return f.reply(ev.ActorID, lang, "menu_close", adapter.KeyboardNone)
	}

	return f.reply(ev.ActorID, lang, "unknown_action", adapter.KeyboardMain)
}

// -----------------------------
// Active-session routing
// -----------------------------

func (f *AdminFlow) handleSession(ctx context.Context, ev adapter.Event, lang model.Language, sess *model.Session, action model.Action) []adapter.Instruction {
	switch sess.Workflow {
	case model.StepChoosingAudience:
		return f.chooseAudience(ev, lang, action)
	case model.StepEnteringMessage:
		return f.dispatchBroadcast(ctx, ev, lang, sess, action)
	case model.StepAwaitingFile:
		return f.receiveRestoreFile(ctx, ev, lang, action)
	case model.StepAddingJSON:
		return f.addPlan(ctx, ev, lang, action)
	case model.StepEditingID:
		return f.selectPlanForEdit(ctx, ev, lang, action)
	case model.StepEditingJSON:
		return f.editPlan(ctx, ev, lang, sess, action)
	}

	// Unreachable unless a new workflow forgets its routing arm.
	logging.With(ctx, f.log).Warn().Str("workflow", string(sess.Workflow)).Msg("session with unknown workflow, clearing")
	f.sessions.Clear(ev.ActorID)
	return f.reply(ev.ActorID, lang, "welcome_admin", adapter.KeyboardMain)
}

func (f *AdminFlow) chooseAudience(ev adapter.Event, lang model.Language, action model.Action) []adapter.Instruction {
	if action == model.ActionCancel {
		return f.cancel(ev.ActorID, lang, "broadcast", "broadcast_cancelled")
	}
	audience, ok := model.AudienceFor(action)
	if !ok {
		// Not an audience label; keep the session, point back at the menu.
		return f.reply(ev.ActorID, lang, "unknown_action", adapter.KeyboardAudience)
	}
	f.sessions.Start(ev.ActorID, model.StepEnteringMessage, map[string]string{
		model.SessionKeyAudience: string(audience),
	})
	metrics.IncWorkflowTransition("broadcast", "advance")
	label := f.tr.T(lang, string(action))
	return f.reply(ev.ActorID, lang, "broadcast_enter_text", adapter.KeyboardCancel, label)
}

func (f *AdminFlow) dispatchBroadcast(ctx context.Context, ev adapter.Event, lang model.Language, sess *model.Session, action model.Action) []adapter.Instruction {
	if action == model.ActionCancel {
		return f.cancel(ev.ActorID, lang, "broadcast", "broadcast_cancelled")
	}
	if ev.Kind != adapter.EventText || ev.Text == "" {
		return f.reply(ev.ActorID, lang, "unknown_action", adapter.KeyboardCancel)
	}

	audience := model.Audience(sess.Data[model.SessionKeyAudience])
	f.sessions.Clear(ev.ActorID)

	record, err := f.broadcast.Dispatch(ctx, audience, ev.Text)
	if err != nil {
		metrics.IncWorkflowTransition("broadcast", "fail")
		logging.With(ctx, f.log).Error().Err(err).Str("audience", string(audience)).Msg("broadcast dispatch failed")
		return f.reply(ev.ActorID, lang, "broadcast_failed", adapter.KeyboardMain)
	}
	metrics.IncWorkflowTransition("broadcast", "complete")

	audienceLabel := f.tr.T(lang, "audience_"+string(audience))
	out := f.reply(ev.ActorID, lang, "broadcast_done", adapter.KeyboardNone,
		audienceLabel, record.SentCount, record.FailedCount)
	return append(out, f.reply(ev.ActorID, lang, "welcome_admin", adapter.KeyboardMain)...)
}

func (f *AdminFlow) receiveRestoreFile(ctx context.Context, ev adapter.Event, lang model.Language, action model.Action) []adapter.Instruction {
	if action == model.ActionCancel {
		return f.cancel(ev.ActorID, lang, "restore", "welcome_admin")
	}
	if ev.Kind != adapter.EventFile || ev.Document == nil {
		return f.reply(ev.ActorID, lang, "restore_send_file", adapter.KeyboardCancel)
	}

	f.sessions.Clear(ev.ActorID)
	if _, err := f.backup.StageRestore(ctx, ev.Document); err != nil {
		metrics.IncWorkflowTransition("restore", "fail")
		return f.reply(ev.ActorID, lang, "restore_failed", adapter.KeyboardMain)
	}
	metrics.IncWorkflowTransition("restore", "complete")
	return f.reply(ev.ActorID, lang, "restore_received", adapter.KeyboardMain)
}

func (f *AdminFlow) addPlan(ctx context.Context, ev adapter.Event, lang model.Language, action model.Action) []adapter.Instruction {
	if action == model.ActionCancel {
		return f.cancel(ev.ActorID, lang, "plan_add", "plans_edit_cancel")
	}
	f.sessions.Clear(ev.ActorID)

	plan, err := model.ParsePlan(ev.Text)
	if err != nil {
		metrics.IncWorkflowTransition("plan_add", "fail")
		return f.reply(ev.ActorID, lang, "plans_add_err", adapter.KeyboardPlans)
	}
	if err := f.plans.Add(ctx, plan); err != nil {
		metrics.IncWorkflowTransition("plan_add", "fail")
		logging.With(ctx, f.log).Error().Err(err).Str("plan_id", plan.ID).Msg("plan add failed")
		return f.reply(ev.ActorID, lang, "plans_add_err", adapter.KeyboardPlans)
	}
	metrics.IncWorkflowTransition("plan_add", "complete")
	return f.reply(ev.ActorID, lang, "plans_add_ok", adapter.KeyboardPlans)
}

func (f *AdminFlow) selectPlanForEdit(ctx context.Context, ev adapter.Event, lang model.Language, action model.Action) []adapter.Instruction {
	if action == model.ActionCancel {
		return f.cancel(ev.ActorID, lang, "plan_edit", "plans_edit_cancel")
	}
	planID := strings.TrimSpace(ev.Text)

	if _, err := f.plans.Get(ctx, planID); err != nil {
		// Missing id fails the flow immediately: editing never creates.
		f.sessions.Clear(ev.ActorID)
		metrics.IncWorkflowTransition("plan_edit", "fail")
		if !errors.Is(err, domain.ErrNotFound) {
			logging.With(ctx, f.log).Error().Err(err).Str("plan_id", planID).Msg("plan lookup failed")
		}
		return f.reply(ev.ActorID, lang, "plans_edit_err", adapter.KeyboardPlans)
	}

	f.sessions.Start(ev.ActorID, model.StepEditingJSON, map[string]string{
		model.SessionKeyPlanID: planID,
	})
	metrics.IncWorkflowTransition("plan_edit", "advance")
	return f.reply(ev.ActorID, lang, "plans_edit_prompt_json", adapter.KeyboardCancel)
}

func (f *AdminFlow) editPlan(ctx context.Context, ev adapter.Event, lang model.Language, sess *model.Session, action model.Action) []adapter.Instruction {
	if action == model.ActionCancel {
		return f.cancel(ev.ActorID, lang, "plan_edit", "plans_edit_cancel")
	}
	planID := sess.Data[model.SessionKeyPlanID]
	f.sessions.Clear(ev.ActorID)

	patch, err := model.ParsePlanPatch(ev.Text)
	if err != nil || planID == "" {
		metrics.IncWorkflowTransition("plan_edit", "fail")
		return f.reply(ev.ActorID, lang, "plans_edit_err", adapter.KeyboardPlans)
	}
	if err := f.plans.Edit(ctx, planID, patch); err != nil {
		metrics.IncWorkflowTransition("plan_edit", "fail")
		if !errors.Is(err, domain.ErrNotFound) {
			logging.With(ctx, f.log).Error().Err(err).Str("plan_id", planID).Msg("plan edit failed")
		}
		return f.reply(ev.ActorID, lang, "plans_edit_err", adapter.KeyboardPlans)
	}
	metrics.IncWorkflowTransition("plan_edit", "complete")
	return f.reply(ev.ActorID, lang, "plans_edit_ok", adapter.KeyboardPlans)
}

// -----------------------------
// Actions without a session step
// -----------------------------

func (f *AdminFlow) createBackup(ctx context.Context, actorID int64, lang model.Language) []adapter.Instruction {
	path, err := f.backup.CreateBackup(ctx)
	if err != nil {
		metrics.IncAdminAction("backup_create", "error")
		return f.reply(actorID, lang, "backup_failed", adapter.KeyboardBackup)
	}
	metrics.IncAdminAction("backup_create", "ok")
	out := f.reply(actorID, lang, "backup_created", adapter.KeyboardNone)
	out = append(out, adapter.Instruction{
		ActorID:    actorID,
		Lang:       lang,
		Text:       f.tr.T(lang, "backup_sending"),
		Attachment: path,
	})
	return out
}

func (f *AdminFlow) listPlans(ctx context.Context, actorID int64, lang model.Language) []adapter.Instruction {
	plans, err := f.plans.List(ctx)
	if err != nil {
		metrics.IncAdminAction("plans_list", "error")
		logging.With(ctx, f.log).Error().Err(err).Msg("plan list failed")
		return f.reply(actorID, lang, "plans_edit_err", adapter.KeyboardPlans)
	}
	metrics.IncAdminAction("plans_list", "ok")
	if len(plans) == 0 {
		return f.reply(actorID, lang, "plans_none", adapter.KeyboardPlans)
	}

	var sb strings.Builder
	sb.WriteString(f.tr.T(lang, "plans_list_header"))
	for _, p := range plans {
		sb.WriteString(fmt.Sprintf("\n- id=%s name=%s price=%g duration_days=%d data_gb=%d backend_plan_id=%s",
			p.ID, p.Name, p.Price, p.DurationDays, p.DataGB, p.BackendPlanID))
	}
	return []adapter.Instruction{{ActorID: actorID, Lang: lang, Text: sb.String(), Keyboard: adapter.KeyboardPlans}}
}

// -----------------------------
// Helpers
// -----------------------------

// cancel clears the session without side effects and confirms to the actor.
func (f *AdminFlow) cancel(actorID int64, lang model.Language, workflow, key string) []adapter.Instruction {
	f.sessions.Clear(actorID)
	metrics.IncWorkflowTransition(workflow, "cancel")
	return f.reply(actorID, lang, key, adapter.KeyboardMain)
}

func (f *AdminFlow) reply(actorID int64, lang model.Language, key string, kb adapter.Keyboard, args ...any) []adapter.Instruction {
	return []adapter.Instruction{{
		ActorID:  actorID,
		Lang:     lang,
		Text:     f.tr.T(lang, key, args...),
		Keyboard: kb,
	}}
}
