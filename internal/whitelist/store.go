package whitelist

import (
	"net/netip"
	"sync"
)

// Store отвечает на запросы членства IP адреса в белом списке.
//
// Реализации: FileStore (чтение из файла, с перечитыванием на каждый запрос
// или однократной загрузкой) и StaticStore (фиксированный набор правил, тесты).
type Store interface {
	// Contains сообщает, покрыт ли адрес хотя бы одним правилом.
	// Пустой список ⇒ всегда false.
	Contains(ip netip.Addr) (bool, error)
}

// contains — общий предикат членства: OR по всем правилам,
// первое совпадение завершает перебор.
func contains(ip netip.Addr, rules []Rule) bool {
	for _, rule := range rules {
		if rule.Contains(ip) {
			return true
		}
	}
	return false
}

// FileStore загружает правила из файла.
//
// В режиме cached=false файл перечитывается при каждом запросе — список всегда
// свежий, правку файла не нужно сопровождать перезапуском процесса (поведение
// исходной системы). В режиме cached=true файл читается один раз при первом
// запросе; конкурентные обработки никогда не видят частично записанный набор,
// так как результат загрузки публикуется атомарно под mutex.
type FileStore struct {
	path   string
	cached bool

	mu    sync.Mutex
	rules []Rule
	ready bool
}

// NewFileStore создаёт FileStore для файла path.
func NewFileStore(path string, cached bool) *FileStore {
	return &FileStore{path: path, cached: cached}
}

// Contains реализует Store.
func (s *FileStore) Contains(ip netip.Addr) (bool, error) {
	rules, err := s.load()
	if err != nil {
		return false, err
	}
	return contains(ip, rules), nil
}

// load возвращает актуальный набор правил согласно режиму кэширования.
func (s *FileStore) load() ([]Rule, error) {
	if !s.cached {
		return Load(s.path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		rules, err := Load(s.path)
		if err != nil {
			return nil, err
		}
		s.rules = rules
		s.ready = true
	}
	return s.rules, nil
}

// StaticStore — Store поверх фиксированного набора правил.
type StaticStore struct {
	rules []Rule
}

// NewStaticStore создаёт StaticStore с заданными правилами.
func NewStaticStore(rules []Rule) *StaticStore {
	return &StaticStore{rules: rules}
}

// Contains реализует Store.
func (s *StaticStore) Contains(ip netip.Addr) (bool, error) {
	return contains(ip, s.rules), nil
}
