package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Sternrassler/cloudhealth-client/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ec2(account, name, id string) record.Record {
	return record.Record{
		"account":       map[string]any{"name": account},
		"name":          name,
		"instance_id":   id,
		"instance_type": map[string]any{"api_name": "t3.micro"},
		"state":         "running",
	}
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestFit(t *testing.T) {
	assert.Equal(t, "abc  ", fit("abc", 5))
	assert.Equal(t, "abcde", fit("abcdefgh", 5))
	assert.Equal(t, "äöü  ", fit("äöü", 5))
}

func TestCenter(t *testing.T) {
	assert.Equal(t, "      No       ", center("No", 15))
	assert.Equal(t, "      Yes      ", center("Yes", 15))
	assert.Equal(t, "much-longer-than-width", center("much-longer-than-width", 5))
}

func TestRender_Customers(t *testing.T) {
	recs := []record.Record{
		{"name": "zeta corp", "id": json.Number("2"), "classification": "managed",
			"partner_billing_configuration": map[string]any{"enabled": false}},
		{"name": "Alpha Inc", "id": json.Number("10"), "classification": "standalone",
			"partner_billing_configuration": map[string]any{"enabled": true}},
	}

	var buf bytes.Buffer
	require.NoError(t, Customers.Render(&buf, recs, Options{}))

	out := lines(buf.String())
	require.Len(t, out, 6)
	assert.Equal(t, "Customer Name                  Customer Id  Classification            Partner Billing", out[0])
	assert.Equal(t, strings.Repeat("-", 85), out[1])
	assert.Equal(t, "Alpha Inc                      10           standalone                      Yes      ", out[2])
	assert.Equal(t, "zeta corp                      2            managed                         No       ", out[3])
	assert.Equal(t, strings.Repeat("-", 85), out[4])
	assert.Equal(t, "Total of customers: 2", out[5])

	name, _ := recs[0].String("name")
	assert.Equal(t, "zeta corp", name, "render must not reorder the input")
}

func TestRender_AccountsSortKey(t *testing.T) {
	acct := func(name, typ, payer string) record.Record {
		return record.Record{"name": name, "amazon_name": name, "account_type": typ, "cluster_name": payer}
	}
	recs := []record.Record{
		acct("c", "Linked", "payer-B"),
		acct("a", "Standalone", "payer-a"),
		acct("b", "Consolidated", "Payer-A"),
	}

	sorted, err := Accounts.Sorted(recs)
	require.NoError(t, err)

	var names []string
	for _, r := range sorted {
		n, _ := r.String("name")
		names = append(names, n)
	}
	// keys: "payer-blinked", "payer-astandalone", "payer-aconsolidated"
	assert.Equal(t, []string{"b", "a", "c"}, names)
}

func TestSorted_Stable(t *testing.T) {
	recs := []record.Record{
		ec2("Prod", "Web", "i-1"),
		ec2("dev", "api", "i-2"),
		ec2("PROD", "web", "i-3"),
		ec2("prod", "WEB", "i-4"),
		ec2("Dev", "API", "i-5"),
	}

	sorted, err := EC2Instances.Sorted(recs)
	require.NoError(t, err)

	var ids []string
	for _, r := range sorted {
		id, _ := r.String("instance_id")
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"i-2", "i-5", "i-1", "i-3", "i-4"}, ids)

	first, _ := recs[0].String("instance_id")
	assert.Equal(t, "i-1", first, "input must not be mutated")
}

func TestRender_EC2Subtotals(t *testing.T) {
	recs := []record.Record{
		ec2("beta", "b1", "i-3"),
		ec2("alpha", "a2", "i-2"),
		ec2("alpha", "a1", "i-1"),
	}

	var buf bytes.Buffer
	require.NoError(t, EC2Instances.Render(&buf, recs, Options{ShowSubtotal: true}))
	out := lines(buf.String())

	sep := strings.Repeat("-", 108)
	require.Len(t, out, 13)
	assert.Equal(t, sep, out[1])
	assert.True(t, strings.HasPrefix(out[2], "alpha                     a1 "))
	assert.True(t, strings.HasPrefix(out[3], "alpha                     a2 "))
	assert.Equal(t, []string{sep, "Total EC2 instances in alpha: 2", sep}, out[4:7])
	assert.True(t, strings.HasPrefix(out[7], "beta                      b1 "))
	assert.Equal(t, []string{sep, "Total EC2 instances in beta: 1", sep}, out[8:11])
	assert.Equal(t, sep, out[11])
	assert.Equal(t, "Total of EC2 instances: 3", out[12])
}

func TestRender_EC2WithoutSubtotals(t *testing.T) {
	recs := []record.Record{ec2("beta", "b1", "i-3"), ec2("alpha", "a1", "i-1")}

	var buf bytes.Buffer
	require.NoError(t, EC2Instances.Render(&buf, recs, Options{}))

	assert.NotContains(t, buf.String(), "Total EC2 instances in")
	assert.Len(t, lines(buf.String()), 6)
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RDSInstances.Render(&buf, nil, Options{ShowSubtotal: true}))

	out := lines(buf.String())
	require.Len(t, out, 4)
	assert.Equal(t, "Total of RDS instances: 0", out[3])
}

func TestRender_RDS(t *testing.T) {
	recs := []record.Record{{
		"account":     map[string]any{"name": "Prod"},
		"instance_id": "orders-db",
		"flavor":      "db.r5.large",
		"engine":      "postgres",
		"status":      "available",
	}}

	var buf bytes.Buffer
	require.NoError(t, RDSInstances.Render(&buf, recs, Options{}))

	out := lines(buf.String())
	assert.Equal(t, "Account Name              Instance Id                    Model        Engine       State     ", out[0])
	assert.Equal(t, "Prod                      orders-db                      db.r5.large  postgres     available ", out[2])
}

func TestRender_LookupErrorWritesNothing(t *testing.T) {
	recs := []record.Record{
		ec2("alpha", "a1", "i-1"),
		{"name": "no-account", "instance_id": "i-9"},
	}

	var buf bytes.Buffer
	err := EC2Instances.Render(&buf, recs, Options{})
	assert.ErrorIs(t, err, record.ErrLookup)
	assert.Empty(t, buf.String())
}
