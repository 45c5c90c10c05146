package service

import (
	"net/http"

	"connectrpc.com/connect"
)

const (
	// GroupServiceName is the fully-qualified name of the GroupService.
	GroupServiceName = "settle.v1.GroupService"
	// SettlementServiceName is the fully-qualified name of the SettlementService.
	SettlementServiceName = "settle.v1.SettlementService"
)

// Procedure paths, in the form Connect routes them.
const (
	GroupServiceCreateGroupProcedure   = "/settle.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure      = "/settle.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure    = "/settle.v1.GroupService/ListGroups"
	GroupServiceDeleteGroupProcedure   = "/settle.v1.GroupService/DeleteGroup"
	GroupServiceAddMemberProcedure     = "/settle.v1.GroupService/AddMember"
	GroupServiceUpdateMemberProcedure  = "/settle.v1.GroupService/UpdateMember"
	GroupServiceRemoveMemberProcedure  = "/settle.v1.GroupService/RemoveMember"
	GroupServiceAddExpenseProcedure    = "/settle.v1.GroupService/AddExpense"
	GroupServiceDeleteExpenseProcedure = "/settle.v1.GroupService/DeleteExpense"
	GroupServiceGetBalancesProcedure   = "/settle.v1.GroupService/GetBalances"

	SettlementServiceComputeSettlementsProcedure     = "/settle.v1.SettlementService/ComputeSettlements"
	SettlementServiceRecordSettlementProcedure       = "/settle.v1.SettlementService/RecordSettlement"
	SettlementServiceUpdateSettlementStatusProcedure = "/settle.v1.SettlementService/UpdateSettlementStatus"
	SettlementServiceListSettlementsProcedure        = "/settle.v1.SettlementService/ListSettlements"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}

// NewGroupServiceHandler builds an HTTP handler for svc. It returns the path
// prefix to mount the handler on.
func NewGroupServiceHandler(svc *GroupService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)

	mux := http.NewServeMux()
	mux.Handle(GroupServiceCreateGroupProcedure, connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(GroupServiceGetGroupProcedure, connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(GroupServiceListGroupsProcedure, connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(GroupServiceDeleteGroupProcedure, connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...))
	mux.Handle(GroupServiceAddMemberProcedure, connect.NewUnaryHandler(GroupServiceAddMemberProcedure, svc.AddMember, opts...))
	mux.Handle(GroupServiceUpdateMemberProcedure, connect.NewUnaryHandler(GroupServiceUpdateMemberProcedure, svc.UpdateMember, opts...))
	mux.Handle(GroupServiceRemoveMemberProcedure, connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...))
	mux.Handle(GroupServiceAddExpenseProcedure, connect.NewUnaryHandler(GroupServiceAddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(GroupServiceDeleteExpenseProcedure, connect.NewUnaryHandler(GroupServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(GroupServiceGetBalancesProcedure, connect.NewUnaryHandler(GroupServiceGetBalancesProcedure, svc.GetBalances, opts...))

	return "/" + GroupServiceName + "/", mux
}

// NewSettlementServiceHandler builds an HTTP handler for svc. It returns the
// path prefix to mount the handler on.
func NewSettlementServiceHandler(svc *SettlementService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)

	mux := http.NewServeMux()
	mux.Handle(SettlementServiceComputeSettlementsProcedure, connect.NewUnaryHandler(SettlementServiceComputeSettlementsProcedure, svc.ComputeSettlements, opts...))
	mux.Handle(SettlementServiceRecordSettlementProcedure, connect.NewUnaryHandler(SettlementServiceRecordSettlementProcedure, svc.RecordSettlement, opts...))
	mux.Handle(SettlementServiceUpdateSettlementStatusProcedure, connect.NewUnaryHandler(SettlementServiceUpdateSettlementStatusProcedure, svc.UpdateSettlementStatus, opts...))
	mux.Handle(SettlementServiceListSettlementsProcedure, connect.NewUnaryHandler(SettlementServiceListSettlementsProcedure, svc.ListSettlements, opts...))

	return "/" + SettlementServiceName + "/", mux
}
