// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

const (
	OWNER_RELATION = "owner"
	STAFF_RELATION = "staff"

	CAN_VIEW_PERMISSION  = "can_view"
	CAN_SCAN_PERMISSION  = "can_scan"
	CAN_ISSUE_PERMISSION = "can_issue"
)

func UserTuple(userId string) string {
	return "user:" + userId
}

func TenantTuple(tenantId string) string {
	return "tenant:" + tenantId
}
