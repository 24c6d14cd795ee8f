/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension that needs a configuration declares its own protobuf message
and stores a single instance of it under the "_c:<package name>" key. The
configuration is loaded from the genesis file using InitConfig and can be
later modified by the configuration owner with an update message handled by
UpdateConfigurationHandler.
*/
package gconf
