// Command chcli prints CloudHealth customer and asset listings.
//
// Usage:
//
//	chcli list-customers
//	chcli list-customer-accounts --customer-id 42
//	chcli list-customer-ec2-instances --customer-id 42 --show-subtotal
//	chcli list-customer-rds-instances -i 42
//
// The bearer token is read from CH_API_KEY. CH_BASE_URL and CH_LOG_LEVEL
// override the defaults; --config points at an optional YAML file.
//
// Exit codes:
//
//	0  success
//	1  request, response or rendering failure
//	2  configuration error (e.g. CH_API_KEY unset)
package main
