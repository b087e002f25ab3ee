package cli

import (
	"fmt"
	"io"
	"strings"
)

// GenerateCompletion writes a completion script for shell ("bash", "zsh" or
// "fish") that knows the given engine names.
func GenerateCompletion(out io.Writer, shell string, engines []string) error {
	list := strings.Join(append(append([]string{}, engines...), "all"), " ")
	var script string
	switch shell {
	case "bash":
		script = bashCompletion
	case "zsh":
		script = zshCompletion
	case "fish":
		script = fishCompletion
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	_, err := fmt.Fprintf(out, script, list)
	return err
}

const bashCompletion = `# Bash completion script for picalc
# Add this to your ~/.bashrc or ~/.bash_completion

_picalc_completions() {
    local cur prev opts engines
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="-h -version -V -d -digits -t -threads -engine -fork-threshold -s -stats -q -quiet -json -o -output -timeout -no-color -v -verbose -server -port -max-digits -redis -redis-ttl -redis-max-idle -completion"
    engines="%s"

    case "${prev}" in
        -engine)
            COMPREPLY=( $(compgen -W "${engines}" -- "${cur}") )
            return 0
            ;;
        -completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- "${cur}") )
            return 0
            ;;
        -o|-output)
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
        -d|-digits)
            COMPREPLY=( $(compgen -W "100 1000 10000 100000 1000000" -- "${cur}") )
            return 0
            ;;
        -t|-threads)
            COMPREPLY=( $(compgen -W "1 2 4 8 16" -- "${cur}") )
            return 0
            ;;
        -timeout)
            COMPREPLY=( $(compgen -W "30s 1m 5m 30m 1h" -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
    fi
}

complete -F _picalc_completions picalc
`

const zshCompletion = `#compdef picalc

# Zsh completion script for picalc
# Place in a directory of your $fpath

_picalc() {
    local -a engines
    engines=(%s)

    _arguments -s \
        '-h[Show help message]' \
        '(-V -version)'{-V,-version}'[Show version information]' \
        '(-d -digits)'{-d,-digits}'[Number of decimals]:digits:(100 1000 10000 100000 1000000)' \
        '(-t -threads)'{-t,-threads}'[Number of worker threads]:threads:(1 2 4 8 16)' \
        '-engine[Engine to use]:engine:($engines)' \
        '-fork-threshold[Fork-join split threshold in terms]:terms:' \
        '(-s -stats)'{-s,-stats}'[Print statistics on stderr]' \
        '(-q -quiet)'{-q,-quiet}'[Do not print the digits]' \
        '-json[Output in JSON format]' \
        '(-o -output)'{-o,-output}'[Output file path]:file:_files' \
        '-timeout[Maximum execution time]:duration:(30s 1m 5m 30m 1h)' \
        '-no-color[Disable colored output]' \
        '(-v -verbose)'{-v,-verbose}'[Enable debug logging]' \
        '-server[Start HTTP server mode]' \
        '-port[Server port]:port:(8080 3000 9000)' \
        '-max-digits[Largest digits per server request]:digits:' \
        '-redis[Redis address for the result cache]:address:' \
        '-redis-ttl[Expiry of cached results]:duration:(0 10m 1h 24h)' \
        '-redis-max-idle[Idle Redis connections]:count:' \
        '-completion[Generate completion script]:shell:(bash zsh fish)'
}

_picalc "$@"
`

const fishCompletion = `# Fish completion script for picalc
# Save as ~/.config/fish/completions/picalc.fish

complete -c picalc -f

complete -c picalc -o h -d 'Show help message'
complete -c picalc -o V -o version -d 'Show version information'

complete -c picalc -o d -o digits -d 'Number of decimals' -xa '100 1000 10000 100000 1000000'
complete -c picalc -o t -o threads -d 'Number of worker threads' -xa '1 2 4 8 16'
complete -c picalc -o engine -d 'Engine to use' -xa '%s'
complete -c picalc -o fork-threshold -d 'Fork-join split threshold in terms' -x
complete -c picalc -o timeout -d 'Maximum execution time' -xa '30s 1m 5m 30m 1h'

complete -c picalc -o s -o stats -d 'Print statistics on stderr'
complete -c picalc -o q -o quiet -d 'Do not print the digits'
complete -c picalc -o json -d 'Output in JSON format'
complete -c picalc -o o -o output -d 'Output file path' -rF
complete -c picalc -o no-color -d 'Disable colored output'
complete -c picalc -o v -o verbose -d 'Enable debug logging'

complete -c picalc -o server -d 'Start HTTP server mode'
complete -c picalc -o port -d 'Server port' -xa '8080 3000 9000'
complete -c picalc -o max-digits -d 'Largest digits per server request' -x
complete -c picalc -o redis -d 'Redis address for the result cache' -x
complete -c picalc -o redis-ttl -d 'Expiry of cached results' -xa '0 10m 1h 24h'
complete -c picalc -o redis-max-idle -d 'Idle Redis connections' -x

complete -c picalc -o completion -d 'Generate completion script' -xa 'bash zsh fish'
`
