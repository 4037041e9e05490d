package recipient

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/miekg/dns"
)

// Ошибки проверки домена. Транспортные сбои DNS возвращаются как есть,
// без оборачивания в эти значения.
var (
	// ErrNoMX — домен существует, но MX-записей у него нет.
	ErrNoMX = errors.New("mx-записи не найдены")
	// ErrDomainNotFound — домен не существует (NXDOMAIN).
	ErrDomainNotFound = errors.New("домен не существует")
)

// Oracle отвечает на вопрос, принимает ли домен почту.
// nil означает, что хотя бы одна MX-запись есть.
type Oracle interface {
	CheckMX(ctx context.Context, domain string) error
}

// OracleFunc адаптирует функцию к интерфейсу Oracle.
type OracleFunc func(ctx context.Context, domain string) error

func (f OracleFunc) CheckMX(ctx context.Context, domain string) error {
	return f(ctx, domain)
}

const resolvConfPath = "/etc/resolv.conf"

// DNSOracle проверяет наличие MX-записей прямым DNS-запросом.
type DNSOracle struct {
	server string
}

// NewDNSOracle создаёт оракул, опрашивающий server (host:port).
// При пустом server берётся первый сервер из /etc/resolv.conf.
func NewDNSOracle(server string) (*DNSOracle, error) {
	if server == "" {
		conf, err := dns.ClientConfigFromFile(resolvConfPath)
		if err != nil {
			return nil, fmt.Errorf("чтение %s: %w", resolvConfPath, err)
		}
		if len(conf.Servers) == 0 {
			return nil, fmt.Errorf("в %s нет DNS-серверов", resolvConfPath)
		}
		server = net.JoinHostPort(conf.Servers[0], conf.Port)
	}
	return &DNSOracle{server: server}, nil
}

func (o *DNSOracle) CheckMX(ctx context.Context, domain string) error {
	m := dns.Msg{
		Question: []dns.Question{{
			Name:   dns.Fqdn(domain),
			Qtype:  dns.TypeMX,
			Qclass: dns.ClassINET,
		}},
	}
	m.RecursionDesired = true

	res, err := dns.ExchangeContext(ctx, &m, o.server)
	if err != nil {
		return fmt.Errorf("запрос MX %s: %w", domain, err)
	}

	if res.Rcode == dns.RcodeNameError {
		return ErrDomainNotFound
	}
	if res.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("запрос MX %s: rcode %s", domain, dns.RcodeToString[res.Rcode])
	}

	for _, rr := range res.Answer {
		if _, ok := rr.(*dns.MX); ok {
			return nil
		}
	}
	return ErrNoMX
}
