// Package hcl provides the concrete HCL implementation of config.Loader. It
// parses tami.hcl, decodes its blocks with gohcl and binds free-form values
// such as runtime overrides through go-cty.
package hcl
