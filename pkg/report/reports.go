package report

import "fmt"

// Customers lists customers by name.
var Customers = Report{
	Columns: []Column{
		{Header: "Customer Name", Width: 30, Value: Field("name")},
		{Header: "Customer Id", Width: 12, Value: Field("id")},
		{Header: "Classification", Width: 25, Value: Field("classification")},
		{Header: "Partner Billing", Width: 15, Align: AlignCenter, Value: YesNo("partner_billing_configuration.enabled")},
	},
	SortKey:        []string{"name"},
	SeparatorWidth: 85,
	Noun:           "customers",
}

// Accounts lists AWS accounts grouped by payer account, then account type.
var Accounts = Report{
	Columns: []Column{
		{Header: "Name", Width: 35, Value: Field("name")},
		{Header: "Amazon Name", Width: 25, Value: Field("amazon_name")},
		{Header: "Account Type", Width: 15, Align: AlignCenter, Value: Field("account_type")},
		{Header: "Payer Account", Width: 35, Value: Field("cluster_name")},
	},
	SortKey:        []string{"cluster_name", "account_type"},
	SeparatorWidth: 120,
	Noun:           "accounts",
}

// EC2Instances lists EC2 instances by account, then name, with optional
// per-account subtotals.
var EC2Instances = Report{
	Columns: []Column{
		{Header: "Account Name", Width: 25, Value: Field("account.name")},
		{Header: "Name", Width: 41, Value: Field("name")},
		{Header: "Instance Id", Width: 19, Value: Field("instance_id")},
		{Header: "Model", Width: 10, Value: Field("instance_type.api_name")},
		{Header: "State", Width: 8, Value: Field("state")},
	},
	SortKey:        []string{"account.name", "name"},
	SeparatorWidth: 108,
	Noun:           "EC2 instances",
	Subtotal: &Subtotal{
		Field: "account.name",
		Label: func(group string, count int) string {
			return fmt.Sprintf("Total EC2 instances in %s: %d", group, count)
		},
	},
}

// RDSInstances lists RDS instances by account, then instance id.
var RDSInstances = Report{
	Columns: []Column{
		{Header: "Account Name", Width: 25, Value: Field("account.name")},
		{Header: "Instance Id", Width: 30, Value: Field("instance_id")},
		{Header: "Model", Width: 12, Value: Field("flavor")},
		{Header: "Engine", Width: 12, Value: Field("engine")},
		{Header: "State", Width: 10, Value: Field("status")},
	},
	SortKey:        []string{"account.name", "instance_id"},
	SeparatorWidth: 94,
	Noun:           "RDS instances",
}
