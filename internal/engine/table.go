package engine

import (
	"context"

	"sanad/internal/domain"
	"sanad/internal/sessions"
	"sanad/internal/transport"
)

type handlerFunc func(e *Engine, ctx context.Context, sess *sessions.Session, ev transport.Event) ([]Reply, State, error)

// stateSpec declares everything the engine needs to know about a state: the
// flow it belongs to, the role required to be in it, where "back" leads, and
// the handler for everything that is not a sentinel. Transitions are total:
// the sentinels are intercepted uniformly and every handler falls back to
// re-prompting its own state on unrecognized input.
type stateSpec struct {
	flow    string
	role    domain.Role
	back    State
	handler handlerFunc
}

var transitions = map[State]stateSpec{
	StateIdle:        {flow: "idle", back: StateIdle, handler: (*Engine).handleIdle},
	StateContactMenu: {flow: "idle", back: StateIdle, handler: (*Engine).handleContactMenu},

	StateAskName:       {flow: "registration", back: StateIdle, handler: (*Engine).handleAskName},
	StateAskPassport:   {flow: "registration", back: StateAskName, handler: (*Engine).handleAskPassport},
	StateAskPhone:      {flow: "registration", back: StateAskPassport, handler: (*Engine).handleAskPhone},
	StateAskAddress:    {flow: "registration", back: StateAskPhone, handler: (*Engine).handleAskAddress},
	StateAskRole:       {flow: "registration", back: StateAskAddress, handler: (*Engine).handleAskRole},
	StateAskFamilySize: {flow: "registration", back: StateAskRole, handler: (*Engine).handleAskFamilySize},

	StateServiceSelect:   {flow: "service", back: StateIdle, handler: (*Engine).handleServiceSelect},
	StateServicePassport: {flow: "service", back: StateServiceSelect, handler: (*Engine).handleServicePassport},

	StateLoginUser: {flow: "auth", back: StateIdle, handler: (*Engine).handleLoginUser},
	StateLoginPass: {flow: "auth", back: StateLoginUser, handler: (*Engine).handleLoginPass},

	StateAdminMenu:           {flow: "admin", role: domain.RoleRoot, back: StateAdminMenu, handler: (*Engine).handleAdminMenu},
	StateAccountMenu:         {flow: "admin", role: domain.RoleRoot, back: StateAdminMenu, handler: (*Engine).handleAccountMenu},
	StateAssistantsMenu:      {flow: "admin", role: domain.RoleRoot, back: StateAccountMenu, handler: (*Engine).handleAssistantsMenu},
	StateCreateAssistantUser: {flow: "admin", role: domain.RoleRoot, back: StateAssistantsMenu, handler: (*Engine).handleCreateAssistantUser},
	StateCreateAssistantPass: {flow: "admin", role: domain.RoleRoot, back: StateCreateAssistantUser, handler: (*Engine).handleCreateAssistantPass},
	StateDeleteAssistantPick: {flow: "admin", role: domain.RoleRoot, back: StateAssistantsMenu, handler: (*Engine).handleDeleteAssistantPick},
	StateChangePassPick:      {flow: "admin", role: domain.RoleRoot, back: StateAssistantsMenu, handler: (*Engine).handleChangePassPick},
	StateChangePassNew:       {flow: "admin", role: domain.RoleRoot, back: StateChangePassPick, handler: (*Engine).handleChangePassNew},
	StateWipeSupervisorPick:  {flow: "admin", role: domain.RoleRoot, back: StateAssistantsMenu, handler: (*Engine).handleWipeSupervisorPick},

	StateMembersMenu:         {flow: "admin", role: domain.RoleRoot, back: StateAccountMenu, handler: (*Engine).handleMembersMenu},
	StateConfirmWipeMembers:  {flow: "admin", role: domain.RoleRoot, back: StateMembersMenu, handler: (*Engine).handleConfirmWipeMembers},
	StateAwaitMemberImport:   {flow: "import", role: domain.RoleRoot, back: StateMembersMenu, handler: (*Engine).handleAwaitMemberImport},
	StateConfirmMemberImport: {flow: "import", role: domain.RoleRoot, back: StateAwaitMemberImport, handler: (*Engine).handleConfirmImport},

	StateDeliveriesMenu:        {flow: "admin", role: domain.RoleRoot, back: StateAdminMenu, handler: (*Engine).handleDeliveriesMenu},
	StateConfirmWipeDeliveries: {flow: "admin", role: domain.RoleRoot, back: StateDeliveriesMenu, handler: (*Engine).handleConfirmWipeDeliveries},
	StateAwaitDeliveryImport:   {flow: "import", role: domain.RoleRoot, back: StateDeliveriesMenu, handler: (*Engine).handleAwaitDeliveryImport},
	StateConfirmDeliveryImport: {flow: "import", role: domain.RoleRoot, back: StateAwaitDeliveryImport, handler: (*Engine).handleConfirmImport},

	StateStatsMenu:        {flow: "admin", role: domain.RoleRoot, back: StateAdminMenu, handler: (*Engine).handleStatsMenu},
	StateConfirmWipeStats: {flow: "admin", role: domain.RoleRoot, back: StateStatsMenu, handler: (*Engine).handleConfirmWipeStats},

	StateServicesMenu:             {flow: "admin", role: domain.RoleRoot, back: StateAdminMenu, handler: (*Engine).handleServicesMenu},
	StateAddService:               {flow: "admin", role: domain.RoleRoot, back: StateServicesMenu, handler: (*Engine).handleAddService},
	StateDeleteServicePick:        {flow: "admin", role: domain.RoleRoot, back: StateServicesMenu, handler: (*Engine).handleDeleteServicePick},
	StateServiceReportMenu:        {flow: "admin", role: domain.RoleRoot, back: StateServicesMenu, handler: (*Engine).handleServiceReportMenu},
	StateServiceReportPick:        {flow: "admin", role: domain.RoleRoot, back: StateServiceReportMenu, handler: (*Engine).handleServiceReportPick},
	StateServiceWipeMenu:          {flow: "admin", role: domain.RoleRoot, back: StateServiceReportMenu, handler: (*Engine).handleServiceWipeMenu},
	StateServiceWipePick:          {flow: "admin", role: domain.RoleRoot, back: StateServiceWipeMenu, handler: (*Engine).handleServiceWipePick},
	StateConfirmWipeServiceReport: {flow: "admin", role: domain.RoleRoot, back: StateServiceWipePick, handler: (*Engine).handleConfirmWipeServiceReport},
	StateConfirmWipeAllRequests:   {flow: "admin", role: domain.RoleRoot, back: StateServiceWipeMenu, handler: (*Engine).handleConfirmWipeAllRequests},
	StateAwaitRequestImport:       {flow: "import", role: domain.RoleRoot, back: StateServicesMenu, handler: (*Engine).handleAwaitRequestImport},
	StateConfirmRequestImport:     {flow: "import", role: domain.RoleRoot, back: StateAwaitRequestImport, handler: (*Engine).handleConfirmImport},

	StateBroadcast: {flow: "broadcast", role: domain.RoleRoot, back: StateAdminMenu, handler: (*Engine).handleBroadcast},

	StateAssistantMenu:          {flow: "assistant", role: domain.RoleAssistant, back: StateAssistantMenu, handler: (*Engine).handleAssistantMenu},
	StateRecordDeliveryPassport: {flow: "assistant", role: domain.RoleAssistant, back: StateAssistantMenu, handler: (*Engine).handleRecordDeliveryPassport},
	StateConfirmDelivery:        {flow: "assistant", role: domain.RoleAssistant, back: StateRecordDeliveryPassport, handler: (*Engine).handleConfirmDelivery},
	StateAssistantReportMenu:    {flow: "assistant", role: domain.RoleAssistant, back: StateAssistantMenu, handler: (*Engine).handleAssistantReportMenu},
}
