/*
Package security builds the client-side tls.Config for cluster
connections.

TLSConfig mirrors the tls / tls_ca_cert / tls_cert configuration surface:
enabling TLS requires a CA certificate to verify the node's server
certificate, and presenting a client certificate for mutual TLS
additionally requires that CA certificate to be set. Validate checks
this dependency and that every named path exists before Build opens a
single file.
*/
package security
