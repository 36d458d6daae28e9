// Package form binds one FormInput to a validator and a submission handler.
// Each rendered form owns exactly one Instance; instances share nothing.
package form
