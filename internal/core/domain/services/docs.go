// Package services provides domain services that span more than one aggregate.
//
// The package includes:
//   - ContributionPolicy: turns a completed order into an insurance fund contribution
package services
