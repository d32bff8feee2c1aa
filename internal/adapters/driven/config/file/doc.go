// Package file stores kbqa settings in ~/.kbqa/config.toml.
package file
