// Package order provides the Order aggregate and the two correlated status
// machines that govern it.
//
// The package includes:
//   - Order: the aggregate root holding line items, totals, references and both statuses
//   - Status: the fulfillment lifecycle with an exhaustive transition table
//   - PaymentStatus: the payment tracker with its own transition graph
//   - LineItem: an immutable ordered line of the order
//   - SLAPolicy: how long an order may stay in a status and who is escalated to
//
// Key business rules:
//   - Completed, Cancelled and Refunded are terminal; nothing moves out of them
//   - Cancelled is reachable from every non-terminal status
//   - Refunded is reachable from every non-terminal status but only through Refund,
//     which requires the order to be paid
//   - Status and payment status are always jointly consistent (see Status.AllowsPayment)
//   - VendorNegotiation needs a vendor, CustomerQuotation a positive quotation,
//     Shipped a tracking reference and Cancelled a reason
//   - Monitored statuses carry an SLA; CheckSLA reports breaches and escalations
//     once per stay in a status
//   - Every successful change bumps the optimistic version and the updated timestamp
package order
